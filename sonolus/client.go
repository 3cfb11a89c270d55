package sonolus

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

// Client fetches levels from the servers Guess knows about. Downloaded
// resources are kept in CacheDir, keyed by server and hash, so rendering the
// same level again needs only the level info request.
type Client struct {
	HTTP     *http.Client
	CacheDir string // empty disables the cache
	Logger   *zap.Logger
	// Servers overrides Guess. Used to point the client at a mirror.
	Servers func(id string) (Server, error)
}

func NewClient(cacheDir string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{HTTP: http.DefaultClient, CacheDir: cacheDir, Logger: logger}
}

// FetchLevel downloads the info and the chart data of a level.
func (c *Client) FetchLevel(ctx context.Context, id string) (*Level, error) {
	id = TrimID(id)
	guess := c.Servers
	if guess == nil {
		guess = Guess
	}
	server, err := guess(id)
	if err != nil {
		return nil, err
	}
	c.logger().Info("fetching level", zap.String("level", id), zap.String("server", server.Name))
	body, err := c.get(ctx, server.MergeURL("/sonolus/levels/"+url.PathEscape(id)))
	if err != nil {
		return nil, fmt.Errorf("fetching level info failed: %w", err)
	}
	var resp ItemResponse[LevelInfo]
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("level info is malformed: %w", err)
	}
	raw, err := c.fetchSrl(ctx, server, resp.Item.Data, "LevelData")
	if err != nil {
		return nil, err
	}
	data, err := ParseLevelData(raw)
	if err != nil {
		return nil, fmt.Errorf("level data is malformed: %w", err)
	}
	return &Level{Server: server, Info: resp.Item, Data: data}, nil
}

// FetchBGM downloads the still encoded background music of a level.
func (c *Client) FetchBGM(ctx context.Context, level *Level) ([]byte, error) {
	return c.fetchSrl(ctx, level.Server, level.Info.BGM, "LevelBgm")
}

// FetchEffect downloads the effect of the level's engine: the clip list and
// the archive holding the clips are fetched concurrently, then every listed
// clip is read from the archive.
func (c *Client) FetchEffect(ctx context.Context, level *Level) (Effect, error) {
	var (
		wg                sync.WaitGroup
		data, audio       []byte
		dataErr, audioErr error
	)
	effect := level.Info.Engine.Effect
	wg.Add(2)
	go func() {
		defer wg.Done()
		data, dataErr = c.fetchSrl(ctx, level.Server, effect.Data, "EffectData")
	}()
	go func() {
		defer wg.Done()
		audio, audioErr = c.fetchSrl(ctx, level.Server, effect.Audio, "EffectAudio")
	}()
	wg.Wait()
	if dataErr != nil {
		return nil, dataErr
	}
	if audioErr != nil {
		return nil, audioErr
	}
	clips, err := ParseEffectData(data)
	if err != nil {
		return nil, fmt.Errorf("effect data is malformed: %w", err)
	}
	archive, err := zip.NewReader(bytes.NewReader(audio), int64(len(audio)))
	if err != nil {
		return nil, fmt.Errorf("effect audio is not a zip archive: %w", err)
	}
	files := make(map[string]*zip.File, len(archive.File))
	for _, f := range archive.File {
		files[f.Name] = f
	}
	ret := make(Effect, len(clips.Clips))
	for _, clip := range clips.Clips {
		f, ok := files[clip.Filename]
		if !ok {
			return nil, fmt.Errorf("effect audio lacks %v for clip %q", clip.Filename, clip.Name)
		}
		b, err := readZipFile(f)
		if err != nil {
			return nil, fmt.Errorf("reading clip %q failed: %w", clip.Name, err)
		}
		ret[clip.Name] = b
	}
	return ret, nil
}

func readZipFile(f *zip.File) ([]byte, error) {
	r, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

// fetchSrl returns the resource from the cache, downloading and caching it on
// a miss. kind names the resource in errors.
func (c *Client) fetchSrl(ctx context.Context, server Server, srl Srl, kind string) ([]byte, error) {
	logger := c.logger().With(zap.String("kind", kind), zap.String("hash", srl.Hash))
	var cachePath string
	if c.CacheDir != "" && srl.Hash != "" {
		cachePath = filepath.Join(c.CacheDir, server.ID+"-"+filepath.Base(srl.Hash))
		if b, err := os.ReadFile(cachePath); err == nil {
			logger.Debug("cache hit")
			return b, nil
		}
		logger.Debug("cache miss")
	}
	b, err := c.get(ctx, server.MergeURL(srl.URL))
	if err != nil {
		return nil, fmt.Errorf("fetching %v failed: %w", kind, err)
	}
	if cachePath != "" {
		if err := os.MkdirAll(c.CacheDir, 0755); err != nil {
			return nil, fmt.Errorf("creating the cache directory failed: %w", err)
		}
		if err := os.WriteFile(cachePath, b, 0644); err != nil {
			return nil, fmt.Errorf("caching %v failed: %w", kind, err)
		}
	}
	return b, nil
}

func (c *Client) get(ctx context.Context, address string) ([]byte, error) {
	c.logger().Debug("GET", zap.String("url", address))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, address, nil)
	if err != nil {
		return nil, err
	}
	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%v responded %v", address, resp.Status)
	}
	return io.ReadAll(resp.Body)
}

func (c *Client) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}
