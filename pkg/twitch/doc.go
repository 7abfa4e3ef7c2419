// Package twitch retrieves emote metadata from the Helix API.
//
// A raw client_id:client_secret credential is exchanged for an app access
// token (OAuth2 client credentials), then the global emote set and each
// configured channel's emote set are fetched sequentially. Every retrieved
// emote is assigned the next codepoint in fetch order: global emotes
// first, then channels in configuration order.
package twitch
