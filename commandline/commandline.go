package commandline

import (
	"flag"
	"fmt"
	"strconv"
	"time"
)

var (
	debug   bool
	noSound bool

	render = boolInt{false, 30}

	fps    int
	height int
	rate   int
	seed   int
	width  int

	dumpDir string
	out     string
)

type boolInt struct {
	set bool
	num int
}

func (b *boolInt) IsBoolFlag() bool {
	// We can not support both "-flag" and "-flag 10"
	// This allows "-flag", and "-flag=10"
	// and also "-flag=true" and "-flag=false"
	// but not "-flag 10"
	return true
}

func (b *boolInt) Set(s string) error {
	v, err := strconv.ParseInt(s, 0, strconv.IntSize)
	if err != nil {
		v, err := strconv.ParseBool(s)
		b.set = v
		return err
	}
	b.set = true
	b.num = int(v)
	return nil
}

func (b *boolInt) String() string {
	return fmt.Sprintf("Set: %v, Num: %v", b.set, b.num)
}

func init() {
	register(flag.CommandLine)
}

func register(fs *flag.FlagSet) {
	fs.BoolVar(&debug, "debug", false, "log every bird chirp")
	fs.BoolVar(&noSound, "nosound", false, "Disable sound output")

	fs.Var(&render, "render", "render the scene offline instead of opening a window, optional number of seconds")

	fs.IntVar(&fps, "fps", 60, "frames per second of the scene")
	fs.IntVar(&height, "height", 600, "window height")
	fs.IntVar(&rate, "rate", 44100, "output sample rate")
	fs.IntVar(&seed, "seed", 0, "random seed, 0 seeds from the clock")
	fs.IntVar(&width, "width", 800, "window width")

	fs.StringVar(&dumpDir, "dump", "", "write the generated buffers as wav files into this directory")
	fs.StringVar(&out, "out", "soundscape.wav", "output file of -render")
}

func Debug() bool {
	return debug
}

func Sound() bool {
	return !noSound
}

func Render() bool {
	return render.set
}

func RenderDuration() time.Duration {
	return time.Duration(render.num) * time.Second
}

func RenderOutput() string {
	return out
}

func DumpDirectory() string {
	return dumpDir
}

func FPS() int {
	return fps
}

func SampleRate() int {
	return rate
}

// Seed returns the random seed; 0 means none was given.
func Seed() uint32 {
	return uint32(seed)
}

func Height() int {
	return height
}

func Width() int {
	return width
}
