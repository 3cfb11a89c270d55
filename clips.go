package soundgen

type (
	// ClipColor is a foreground/background color name pair hinting how the
	// progress of a clip should be drawn.
	ClipColor struct {
		FG string
		BG string
	}

	// ClipInfo is the human facing description of an effect clip.
	ClipInfo struct {
		Label string
		Color ClipColor
	}
)

// InstantClips maps the archetypes of one-shot notes to the effect clip they
// trigger. Archetypes not listed here make no sound.
var InstantClips = map[string]string{
	"NormalTapNote":                 "#PERFECT",
	"CriticalTapNote":               "Sekai Critical Tap",
	"NormalFlickNote":               "#PERFECT_ALTERNATIVE",
	"CriticalFlickNote":             "Sekai Critical Flick",
	"NormalSlideStartNote":          "#PERFECT",
	"CriticalSlideStartNote":        "#PERFECT",
	"NormalSlideEndNote":            "#PERFECT",
	"CriticalSlideEndNote":          "#PERFECT",
	"NormalSlideEndFlickNote":       "#PERFECT_ALTERNATIVE",
	"CriticalSlideEndFlickNote":     "Sekai Critical Flick",
	"NormalSlideTickNote":           "Sekai Tick",
	"CriticalSlideTickNote":         "Sekai Critical Tick",
	"NormalAttachedSlideTickNote":   "Sekai Tick",
	"CriticalAttachedSlideTickNote": "Sekai Critical Tick",
	"NormalTraceNote":               "Sekai+ Normal Trace",
	"CriticalTraceNote":             "Sekai+ Critical Trace",
	"NormalTraceFlickNote":          "Sekai+ Normal Trace Flick",
	"CriticalTraceFlickNote":        "Sekai+ Critical Trace Flick",
	"NonDirectionalTraceFlickNote":  "Sekai+ Normal Trace Flick",
	"TraceSlideStartNote":           "Sekai+ Normal Trace",
	"TraceSlideEndNote":             "Sekai+ Normal Trace",
}

// HoldClips maps the archetypes of hold connectors to the clip that is looped
// for as long as the hold lasts. Connectors reference their first and last
// note through the HeadField and TailField.
var HoldClips = map[string]string{
	"NormalSlideConnector":   "#HOLD",
	"CriticalSlideConnector": "Sekai Critical Hold",
}

var clipInfos = map[string]ClipInfo{
	"#PERFECT":                    {Label: "Tap", Color: ClipColor{FG: "cyan", BG: "blue"}},
	"#PERFECT_ALTERNATIVE":        {Label: "Flick", Color: ClipColor{FG: "red", BG: "yellow"}},
	"#HOLD":                       {Label: "Hold", Color: ClipColor{FG: "green", BG: "blue"}},
	"Sekai Tick":                  {Label: "Slide Tick", Color: ClipColor{FG: "green", BG: "blue"}},
	"Sekai Critical Tap":          {Label: "Critical Tap", Color: ClipColor{FG: "yellow", BG: "orange"}},
	"Sekai Critical Hold":         {Label: "Critical Hold", Color: ClipColor{FG: "yellow", BG: "orange"}},
	"Sekai Critical Flick":        {Label: "Critical Flick", Color: ClipColor{FG: "yellow", BG: "orange"}},
	"Sekai Critical Tick":         {Label: "Critical Slide Tick", Color: ClipColor{FG: "yellow", BG: "orange"}},
	"Sekai+ Normal Trace":         {Label: "Trace", Color: ClipColor{FG: "black", BG: "white"}},
	"Sekai+ Critical Trace":       {Label: "Critical Trace", Color: ClipColor{FG: "yellow", BG: "orange"}},
	"Sekai+ Normal Trace Flick":   {Label: "Trace Flick", Color: ClipColor{FG: "red", BG: "yellow"}},
	"Sekai+ Critical Trace Flick": {Label: "Critical Trace Flick", Color: ClipColor{FG: "yellow", BG: "orange"}},
}

// Clip returns the description of an effect clip. Clips without a known
// description are labeled with their own name.
func Clip(name string) ClipInfo {
	if info, ok := clipInfos[name]; ok {
		return info
	}
	return ClipInfo{Label: name, Color: ClipColor{FG: "white", BG: "black"}}
}
