// cmd/anim_trace/main.go
// 动画播放轨迹工具：不打开窗口，按固定时间步长模拟播放并输出每一步的帧索引
//
// 用法：
//
//	go run ./cmd/anim_trace --file=data/animations/hero.yaml --name=hero_jump --ticks=20
//	go run ./cmd/anim_trace --file=level.tmx --list
//	go run ./cmd/anim_trace --file=data/animations/coin.yaml --ecs --speed=0.5
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/decker502/spriteanim/pkg/anim"
	"github.com/decker502/spriteanim/pkg/config"
	"github.com/decker502/spriteanim/pkg/donburianim"
	"github.com/yohamta/donburi"
	"gopkg.in/yaml.v3"
)

// TraceStep 一个时间步之后的播放状态
type TraceStep struct {
	Tick           int           `yaml:"tick"`
	Time           time.Duration `yaml:"time"`
	AnimationFrame int           `yaml:"animationFrame"`
	SpriteFrame    uint          `yaml:"spriteFrame"`
	Ended          bool          `yaml:"ended"`
}

// Trace 从初始状态开始，以 dt 为步长推进 ticks 次
func Trace(a *anim.Animation, dt time.Duration, ticks int) []TraceStep {
	state := anim.NewState()
	steps := make([]TraceStep, 0, ticks)
	for i := 1; i <= ticks; i++ {
		state.Update(a, dt)
		steps = append(steps, TraceStep{
			Tick:           i,
			Time:           time.Duration(i) * dt,
			AnimationFrame: state.AnimationFrameIndex(),
			SpriteFrame:    state.SpriteFrameIndex(),
			Ended:          state.IsEnded(),
		})
	}
	return steps
}

// TraceWorld 同 Trace，但通过 donburi 世界中的一个实体播放，并按 speed 缩放时间
func TraceWorld(a *anim.Animation, dt time.Duration, ticks int, speed float64) []TraceStep {
	world := donburi.NewWorld()
	entry := world.Entry(world.Create(donburianim.Speed))
	donburianim.Speed.SetValue(entry, donburianim.SpeedData{Speed: speed})
	donburianim.Play(entry, a)

	steps := make([]TraceStep, 0, ticks)
	for i := 1; i <= ticks; i++ {
		donburianim.Advance(world, dt)
		state := donburianim.State.Get(entry)
		steps = append(steps, TraceStep{
			Tick:           i,
			Time:           time.Duration(i) * dt,
			AnimationFrame: state.AnimationFrameIndex(),
			SpriteFrame:    state.SpriteFrameIndex(),
			Ended:          state.IsEnded(),
		})
	}
	return steps
}

func main() {
	log.SetFlags(0)
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		log.Fatalf("anim_trace: %v", err)
	}
}

func run(args []string, stdout io.Writer) error {
	fset := flag.NewFlagSet("anim_trace", flag.ContinueOnError)
	file := fset.String("file", "", "动画定义文件（.yaml/.yml/.tmx）")
	name := fset.String("name", "", "动画名；文件只包含一个动画时可省略")
	dt := fset.Duration("dt", time.Second/60, "每一步的时间增量")
	ticks := fset.Int("ticks", 60, "模拟的步数")
	format := fset.String("format", "text", "输出格式：text 或 yaml")
	list := fset.Bool("list", false, "只列出文件中的动画")
	useECS := fset.Bool("ecs", false, "通过 donburi 实体播放（验证 ECS 适配层）")
	speed := fset.Float64("speed", 1, "播放速度倍率，仅 --ecs 时生效")
	if err := fset.Parse(args); err != nil {
		return err
	}

	if *file == "" {
		return fmt.Errorf("--file is required")
	}
	if *ticks < 0 {
		return fmt.Errorf("--ticks must not be negative, got %d", *ticks)
	}

	lib := config.NewAnimationLibrary(os.DirFS(filepath.Dir(*file)))
	names, err := lib.LoadFile(filepath.Base(*file))
	if err != nil {
		return err
	}

	if *list {
		for _, n := range names {
			fmt.Fprintf(stdout, "%s\t%s\n", n, lib.MustGet(n).String())
		}
		return nil
	}

	selected := *name
	if selected == "" {
		if len(names) != 1 {
			return fmt.Errorf("%s contains %d animations, choose one with --name: %v", *file, len(names), names)
		}
		selected = names[0]
	}
	a, err := lib.Lookup(selected)
	if err != nil {
		return err
	}

	var steps []TraceStep
	if *useECS {
		steps = TraceWorld(a, *dt, *ticks, *speed)
	} else {
		steps = Trace(a, *dt, *ticks)
	}
	switch *format {
	case "yaml":
		enc := yaml.NewEncoder(stdout)
		if err := enc.Encode(map[string]interface{}{
			"animation": selected,
			"mode":      a.Mode().String(),
			"dt":        dt.String(),
			"steps":     steps,
		}); err != nil {
			enc.Close()
			return err
		}
		return enc.Close()
	case "text":
		fmt.Fprintf(stdout, "%s: %s\n", selected, a.String())
		fmt.Fprintf(stdout, "%-6s %-10s %-6s %-6s %s\n", "tick", "time", "frame", "sprite", "ended")
		for _, s := range steps {
			fmt.Fprintf(stdout, "%-6d %-10s %-6d %-6d %v\n", s.Tick, s.Time, s.AnimationFrame, s.SpriteFrame, s.Ended)
		}
		return nil
	}
	return fmt.Errorf("unknown format %q", *format)
}
