package download

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/arthur-debert/twitchmotes/pkg/errors"
	"github.com/arthur-debert/twitchmotes/pkg/filesystem"
	"github.com/arthur-debert/twitchmotes/pkg/staging"
	"github.com/arthur-debert/twitchmotes/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cdnServer serves "<id>@<scale>" as the body of every asset and tracks concurrency
type cdnServer struct {
	inFlight    atomic.Int32
	maxInFlight atomic.Int32
	missing     map[string]bool
	delay       time.Duration
}

func (c *cdnServer) handler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := c.inFlight.Add(1)
		defer c.inFlight.Add(-1)
		for {
			old := c.maxInFlight.Load()
			if n <= old || c.maxInFlight.CompareAndSwap(old, n) {
				break
			}
		}
		time.Sleep(c.delay)

		// /<id>/static/light/<scale>.0
		parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
		if len(parts) != 4 || parts[1] != "static" || parts[2] != "light" {
			t.Errorf("unexpected asset path: %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		if c.missing[parts[0]] {
			http.NotFound(w, r)
			return
		}
		fmt.Fprintf(w, "%s@%s", parts[0], parts[3])
	})
}

func remoteRecords(n int) []types.EmoteRecord {
	records := make([]types.EmoteRecord, n)
	for i := range records {
		records[i] = types.EmoteRecord{
			Name:      fmt.Sprintf("emote%d", i),
			Codepoint: uint32(0x200 + i),
			Origin:    types.OriginGlobalRemote,
			AssetID:   fmt.Sprintf("id%d", i),
		}
	}
	return records
}

func newArea(t *testing.T) *staging.Area {
	t.Helper()
	area := staging.New(filesystem.NewMemory(), "/build")
	require.NoError(t, area.Reset())
	return area
}

func TestAssetURL(t *testing.T) {
	assert.Equal(t, "https://cdn.example/emoticons/v2/25/static/light/3.0",
		AssetURL("https://cdn.example/emoticons/v2", "25", 3))
	assert.Equal(t, "https://cdn.example/v2/emotesv2_x/static/light/1.0",
		AssetURL("https://cdn.example/v2/", "emotesv2_x", 1))
}

func TestDownload_StagesEveryRecord(t *testing.T) {
	cdn := &cdnServer{}
	srv := httptest.NewServer(cdn.handler(t))
	defer srv.Close()

	area := newArea(t)
	records := remoteRecords(5)

	d := New(srv.Client(), Options{CDNURL: srv.URL, Scale: 2, Parallelism: 3})
	result, err := d.Download(context.Background(), records, area)
	require.NoError(t, err)

	assert.Equal(t, records, result.Completed)
	assert.Empty(t, result.Failed)
	assert.NoError(t, result.Err())

	for _, rec := range records {
		got, err := area.FS().ReadFile(area.Path(rec.Codepoint))
		require.NoError(t, err)
		assert.Equal(t, rec.AssetID+"@2.0", string(got))
	}
}

func TestDownload_RespectsParallelismBound(t *testing.T) {
	for _, limit := range []int{1, 2, 4} {
		t.Run(fmt.Sprintf("limit_%d", limit), func(t *testing.T) {
			cdn := &cdnServer{delay: 15 * time.Millisecond}
			srv := httptest.NewServer(cdn.handler(t))
			defer srv.Close()

			d := New(srv.Client(), Options{CDNURL: srv.URL, Scale: 1, Parallelism: limit})
			result, err := d.Download(context.Background(), remoteRecords(12), newArea(t))
			require.NoError(t, err)
			assert.Len(t, result.Completed, 12)

			assert.LessOrEqual(t, int(cdn.maxInFlight.Load()), limit)
			assert.GreaterOrEqual(t, int(cdn.maxInFlight.Load()), 1)
		})
	}
}

func TestDownload_ZeroParallelismMeansOne(t *testing.T) {
	cdn := &cdnServer{delay: 5 * time.Millisecond}
	srv := httptest.NewServer(cdn.handler(t))
	defer srv.Close()

	d := New(srv.Client(), Options{CDNURL: srv.URL, Scale: 1})
	_, err := d.Download(context.Background(), remoteRecords(4), newArea(t))
	require.NoError(t, err)
	assert.Equal(t, int32(1), cdn.maxInFlight.Load())
}

func TestDownload_FailureAbortsBatch(t *testing.T) {
	cdn := &cdnServer{missing: map[string]bool{"id2": true}}
	srv := httptest.NewServer(cdn.handler(t))
	defer srv.Close()

	d := New(srv.Client(), Options{CDNURL: srv.URL, Scale: 1, Parallelism: 2})
	result, err := d.Download(context.Background(), remoteRecords(6), newArea(t))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrNetworkFetch))
	assert.Equal(t, http.StatusNotFound, errors.GetErrorDetails(err)["status"])
	assert.Empty(t, result.Completed)
}

func TestDownload_OversizedAsset(t *testing.T) {
	cdn := &cdnServer{}
	srv := httptest.NewServer(cdn.handler(t))
	defer srv.Close()

	t.Run("rejects_body_over_limit", func(t *testing.T) {
		area := newArea(t)
		// bodies are "id0@1", five bytes
		d := New(srv.Client(), Options{CDNURL: srv.URL, Scale: 1, Parallelism: 1, MaxAssetBytes: 4})
		_, err := d.Download(context.Background(), remoteRecords(1), area)
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrNetworkFetch))
		assert.Equal(t, int64(4), errors.GetErrorDetails(err)["limit"])

		_, statErr := area.FS().Stat(area.Path(0x200))
		assert.Error(t, statErr, "oversized asset must not be staged")
	})

	t.Run("accepts_body_at_limit", func(t *testing.T) {
		area := newArea(t)
		d := New(srv.Client(), Options{CDNURL: srv.URL, Scale: 1, Parallelism: 1, MaxAssetBytes: 5})
		result, err := d.Download(context.Background(), remoteRecords(1), area)
		require.NoError(t, err)
		require.Len(t, result.Completed, 1)

		data, err := area.FS().ReadFile(area.Path(0x200))
		require.NoError(t, err)
		assert.Equal(t, "id0@1", string(data))
	})
}

func TestDownload_SkipFailed(t *testing.T) {
	cdn := &cdnServer{missing: map[string]bool{"id1": true, "id3": true}}
	srv := httptest.NewServer(cdn.handler(t))
	defer srv.Close()

	area := newArea(t)
	records := remoteRecords(5)

	d := New(srv.Client(), Options{CDNURL: srv.URL, Scale: 1, Parallelism: 2, SkipFailed: true})
	result, err := d.Download(context.Background(), records, area)
	require.NoError(t, err)

	assert.Equal(t, []types.EmoteRecord{records[0], records[2], records[4]}, result.Completed)
	require.Len(t, result.Failed, 2)
	assert.Equal(t, "emote1", result.Failed[0].Record.Name)
	assert.Equal(t, "emote3", result.Failed[1].Record.Name)
	assert.Error(t, result.Err())

	_, err = area.FS().Stat(area.Path(records[1].Codepoint))
	assert.Error(t, err, "failed records leave no staged file")
}

func TestDownload_WriteFailure(t *testing.T) {
	cdn := &cdnServer{}
	srv := httptest.NewServer(cdn.handler(t))
	defer srv.Close()

	// staging dir never created on disk
	area := staging.New(filesystem.NewOS(), t.TempDir()+"/missing")

	d := New(srv.Client(), Options{CDNURL: srv.URL, Scale: 1, Parallelism: 1})
	_, err := d.Download(context.Background(), remoteRecords(1), area)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrFileWrite))
}

func TestDownload_CancelledContext(t *testing.T) {
	cdn := &cdnServer{}
	srv := httptest.NewServer(cdn.handler(t))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := New(srv.Client(), Options{CDNURL: srv.URL, Scale: 1, Parallelism: 2})
	_, err := d.Download(ctx, remoteRecords(3), newArea(t))
	assert.True(t, errors.IsErrorCode(err, errors.ErrNetworkFetch), "got %v", err)
}

func TestDownload_NoRecords(t *testing.T) {
	d := New(nil, Options{CDNURL: "http://unused.invalid", Scale: 1, Parallelism: 2})
	result, err := d.Download(context.Background(), nil, newArea(t))
	require.NoError(t, err)
	assert.Empty(t, result.Completed)
}
