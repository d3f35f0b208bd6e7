package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fogleman/gg"

	"github.com/Garsondee/tileframe/internal/audio"
	"github.com/Garsondee/tileframe/internal/data"
	"github.com/Garsondee/tileframe/internal/display"
	"github.com/Garsondee/tileframe/internal/event"
	"github.com/Garsondee/tileframe/internal/framework"
	"github.com/Garsondee/tileframe/internal/gfx"
	"github.com/Garsondee/tileframe/internal/settings"
	"github.com/Garsondee/tileframe/internal/stages"
)

// scenario scripts the raw input delivered before each frame.
type scenario func(frame, frames int) []display.RawEvent

var scenarios = map[string]scenario{
	"idle": func(int, int) []display.RawEvent { return nil },
	"strategy": func(frame, _ int) []display.RawEvent {
		if frame == 1 {
			return []display.RawEvent{key(display.RawKeyDown, event.KeyTab), key(display.RawKeyUp, event.KeyTab)}
		}
		return nil
	},
	"pan": func(frame, frames int) []display.RawEvent {
		switch frame {
		case 1:
			return []display.RawEvent{key(display.RawKeyDown, event.KeyArrowRight)}
		case frames / 2:
			return []display.RawEvent{key(display.RawKeyUp, event.KeyArrowRight)}
		}
		return nil
	},
	"pause": func(frame, frames int) []display.RawEvent {
		switch frame {
		case 2:
			return []display.RawEvent{key(display.RawKeyDown, event.KeyP)}
		case frames / 2:
			return []display.RawEvent{key(display.RawKeyDown, event.KeySpace)}
		}
		return nil
	},
}

func key(kind display.RawKind, k event.KeyCode) display.RawEvent {
	return display.RawEvent{Kind: kind, Key: k}
}

type runStats struct {
	runIndex int
	seed     int64

	frames      int
	clears      int
	draws       int
	scaled      int
	perImage    map[string]int
	stageFrames map[string]int
	summary     string
}

type runConfig struct {
	frames   int
	width    int
	height   int
	citySize int
	scenario string
	pngDir   string
	args     []string
}

func main() {
	var runs int
	var seedBase int64
	var seedStep int64
	var cfg runConfig

	flag.IntVar(&runs, "runs", 3, "number of headless runs")
	flag.IntVar(&cfg.frames, "frames", 120, "frames per run")
	flag.Int64Var(&seedBase, "seed-base", 42, "city seed for run 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.IntVar(&cfg.width, "width", 640, "display width")
	flag.IntVar(&cfg.height, "height", 360, "display height")
	flag.IntVar(&cfg.citySize, "city-size", 32, "city width and height in tiles")
	flag.StringVar(&cfg.scenario, "scenario", "idle", "input script: "+strings.Join(scenarioNames(), ", "))
	flag.StringVar(&cfg.pngDir, "png", "", "directory to save each run's last frame to")
	flag.Parse()
	cfg.args = flag.Args()

	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		return
	}
	if cfg.frames <= 0 {
		fmt.Println("error: -frames must be > 0")
		return
	}
	if _, ok := scenarios[cfg.scenario]; !ok {
		fmt.Printf("error: unsupported scenario %q (supported: %s)\n", cfg.scenario, strings.Join(scenarioNames(), ", "))
		return
	}

	fmt.Printf("=== Headless Render Report ===\n")
	fmt.Printf("scenario=%s runs=%d frames=%d seed_base=%d seed_step=%d\n\n", cfg.scenario, runs, cfg.frames, seedBase, seedStep)

	all := make([]runStats, 0, runs)
	for i := 0; i < runs; i++ {
		seed := seedBase + int64(i)*seedStep
		stats, err := runCity(i+1, seed, cfg)
		if err != nil {
			fmt.Printf("error: run %d: %v\n", i+1, err)
			os.Exit(1)
		}
		all = append(all, stats)
		printRun(os.Stdout, stats)
	}
	printAggregate(os.Stdout, all)
}

func scenarioNames() []string {
	names := make([]string, 0, len(scenarios))
	for n := range scenarios {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func runCity(runIndex int, seed int64, cfg runConfig) (runStats, error) {
	s := settings.New("")
	s.Set("Visual.Display", "headless")
	s.Set("Visual.RendererList", "software")
	s.Set("Audio.Backends", "null")
	s.SetInt("Visual.HeadlessFPS", 0)
	s.SetInt("Visual.ScreenWidth", cfg.width)
	s.SetInt("Visual.ScreenHeight", cfg.height)
	s.SetInt("City.Seed", int(seed))
	s.SetInt("City.Width", cfg.citySize)
	s.SetInt("City.Height", cfg.citySize)
	s.ApplyOverrides(cfg.args)

	var head *display.Headless
	var rec *gfx.Recorder
	reg := framework.NewRegistry()
	reg.RegisterDisplay("headless", func(s *settings.Store) (display.Display, error) {
		head = display.NewHeadless(s.GetInt("Visual.ScreenWidth"), s.GetInt("Visual.ScreenHeight"), 0)
		return head, nil
	})
	reg.RegisterRenderer("software", func(d display.Display) (gfx.Renderer, error) {
		w, h := d.Size()
		sw := gfx.NewSoftware(w, h)
		if t, ok := d.(display.SoftwareTarget); ok {
			t.AttachSoftware(sw)
		}
		rec = gfx.NewRecorder(sw)
		return rec, nil
	})
	reg.RegisterSoundBackend("null", func() (audio.Backend, error) { return audio.Null{}, nil })

	fw, err := framework.New(s, reg, data.New(s.GetString("Resource.LocalDataDir"), s.GetString("Resource.SystemDataDir")))
	if err != nil {
		return runStats{}, err
	}
	defer fw.Close()

	rs := runStats{
		runIndex:    runIndex,
		seed:        seed,
		perImage:    map[string]int{},
		stageFrames: map[string]int{},
	}
	script := scenarios[cfg.scenario]
	head.MaxFrames = cfg.frames
	head.Script = func(frame int) []display.RawEvent {
		st := fw.Stack()
		for _, name := range st.Names() {
			rs.stageFrames[name]++
		}
		if !st.IsEmpty() {
			if cs, ok := st.Current().(*stages.CityStage); ok {
				rs.summary = cs.View.Summary()
			}
		}
		return script(frame, cfg.frames)
	}

	if err := fw.Run(stages.NewBootUp(fw)); err != nil {
		return rs, err
	}

	rs.frames = head.Frames()
	rs.clears = rec.Clears
	tallyDraws(&rs, rec.Calls)

	if cfg.pngDir != "" && head.LastFrame() != nil {
		if err := os.MkdirAll(cfg.pngDir, 0o755); err != nil {
			return rs, err
		}
		name := filepath.Join(cfg.pngDir, fmt.Sprintf("run-%d.png", runIndex))
		if err := gg.SavePNG(name, head.LastFrame()); err != nil {
			return rs, err
		}
	}
	return rs, nil
}

func tallyDraws(rs *runStats, calls []gfx.DrawCall) {
	for _, c := range calls {
		rs.draws++
		if c.Scaled {
			rs.scaled++
		}
		rs.perImage[c.Image]++
	}
}

func printRun(w io.Writer, rs runStats) {
	fmt.Fprintf(w, "--- Run %d (seed=%d) ---\n", rs.runIndex, rs.seed)
	fmt.Fprintf(w, "frames=%d clears=%d draws=%d scaled=%d draws_per_frame=%.1f\n",
		rs.frames, rs.clears, rs.draws, rs.scaled, avg(rs.draws, rs.frames))
	fmt.Fprintf(w, "stage_frames: %s\n", joinCounts(rs.stageFrames))
	fmt.Fprintf(w, "top_images: %s\n", topImages(rs.perImage, 5))
	if rs.summary != "" {
		fmt.Fprintf(w, "view: %s\n", rs.summary)
	}
	fmt.Fprintln(w)
}

func printAggregate(w io.Writer, all []runStats) {
	totalFrames := 0
	totalDraws := 0
	totalScaled := 0
	images := map[string]int{}
	for _, rs := range all {
		totalFrames += rs.frames
		totalDraws += rs.draws
		totalScaled += rs.scaled
		for k, v := range rs.perImage {
			images[k] += v
		}
	}

	fmt.Fprintln(w, "=== Aggregate ===")
	fmt.Fprintf(w, "runs=%d\n", len(all))
	fmt.Fprintf(w, "avg_per_run: frames=%.1f draws=%.1f scaled=%.1f\n",
		avg(totalFrames, len(all)), avg(totalDraws, len(all)), avg(totalScaled, len(all)))
	fmt.Fprintf(w, "avg_draws_per_frame=%.1f\n", avg(totalDraws, totalFrames))
	fmt.Fprintf(w, "unique_images=%d\n", len(images))
	fmt.Fprintf(w, "top_images: %s\n", topImages(images, 10))
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

// topImages lists the n most drawn images, most first, ties by name.
func topImages(counts map[string]int, n int) string {
	if len(counts) == 0 {
		return "none"
	}
	names := make([]string, 0, len(counts))
	for k := range counts {
		names = append(names, k)
	}
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return names[i] < names[j]
	})
	if len(names) > n {
		names = names[:n]
	}
	parts := make([]string, len(names))
	for i, k := range names {
		parts[i] = fmt.Sprintf("%s(%d)", k, counts[k])
	}
	return strings.Join(parts, ",")
}

func joinCounts(counts map[string]int) string {
	if len(counts) == 0 {
		return "none"
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%d", k, counts[k])
	}
	return strings.Join(parts, " ")
}
