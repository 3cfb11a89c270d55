// Package sonolus retrieves levels, background music and effect clips from
// Sonolus servers, or from local files laid out the same way.
package sonolus

import "github.com/chartpreview/soundgen"

type (
	// Srl points to a resource on a server. Hash identifies the content and
	// is used as the cache key; URL may be absolute or relative to the server.
	Srl struct {
		Type string `json:"type,omitempty"`
		Hash string `json:"hash"`
		URL  string `json:"url"`
	}

	LevelInfo struct {
		Name    string     `json:"name"`
		Title   string     `json:"title"`
		Artists string     `json:"artists"`
		Author  string     `json:"author"`
		Rating  int        `json:"rating"`
		BGM     Srl        `json:"bgm"`
		Data    Srl        `json:"data"`
		Engine  EngineInfo `json:"engine"`
	}

	EngineInfo struct {
		Version int        `json:"version"`
		Effect  EffectInfo `json:"effect"`
	}

	EffectInfo struct {
		Audio Srl `json:"audio"`
		Data  Srl `json:"data"`
	}

	ItemResponse[T any] struct {
		Item T `json:"item"`
	}

	// EffectData lists the clips of an effect and the files holding them.
	EffectData struct {
		Clips []EffectClip `json:"clips" yaml:"clips"`
	}

	EffectClip struct {
		Name     string `json:"name" yaml:"name"`
		Filename string `json:"filename" yaml:"filename"`
	}

	// Level is a chart together with where it came from.
	Level struct {
		Server Server
		Info   LevelInfo
		Data   soundgen.LevelData
	}

	// Effect maps clip names to their still encoded audio files.
	Effect map[string][]byte
)
