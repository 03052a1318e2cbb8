// Package sampling runs the pairwise saliency comparison between two groups of images.
package sampling

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"path/filepath"
	"strconv"

	"github.com/kozaktomas/saliency-bias/internal/collage"
	"github.com/kozaktomas/saliency-bias/internal/constants"
	"github.com/kozaktomas/saliency-bias/internal/saliency"
	"github.com/schollz/progressbar/v3"
)

var ErrEmptyGroup = errors.New("group has no images")

// Verdict is the outcome of a single draw.
type Verdict int

const (
	Discarded Verdict = iota
	Group1
	Group2
)

func (v Verdict) String() string {
	switch v {
	case Group1:
		return "group1"
	case Group2:
		return "group2"
	default:
		return "discarded"
	}
}

// Classify maps the salient y-coordinate of a collage to the group it favors.
// Points inside the gap band [Group1Limit, Group2Limit] favor neither.
func Classify(y int) Verdict {
	switch {
	case y < constants.Group1Limit:
		return Group1
	case y > constants.Group2Limit:
		return Group2
	default:
		return Discarded
	}
}

// ProgressInfo contains progress information for callbacks
type ProgressInfo struct {
	Draw    int
	Total   int
	Verdict Verdict
	Point   saliency.Point
}

// ComposeFunc writes the collage of the two images to outPath.
type ComposeFunc func(topPath, bottomPath, outPath string) error

type Options struct {
	Rand         *rand.Rand         // draw source; seeded with 0 if nil
	CollageDir   string             // where <draw>.png collages are written
	Compose      ComposeFunc        // defaults to collage.WriteFile
	ShowProgress bool               // render a terminal progress bar
	OnProgress   func(ProgressInfo) // Optional callback after every draw
	Logger       *slog.Logger
}

// Outcome holds the files chosen per group. A draw that favors group 1 records
// the group 1 file as chosen and the group 2 file as not chosen, and vice versa.
// Discarded draws are only counted.
type Outcome struct {
	ChosenGroup1    []string
	ChosenGroup2    []string
	NotChosenGroup1 []string
	NotChosenGroup2 []string
	Discarded       int
	Draws           int
}

type Engine struct {
	oracle saliency.Oracle
	opts   Options
}

func New(oracle saliency.Oracle, opts Options) *Engine {
	if opts.Rand == nil {
		opts.Rand = NewRand(constants.DefaultSeed)
	}
	if opts.Compose == nil {
		opts.Compose = collage.WriteFile
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Engine{oracle: oracle, opts: opts}
}

// NewRand returns the deterministic random source used for draws.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

// Compare performs n independent draws. Every draw picks one file from each group
// uniformly with replacement, builds a collage, queries the oracle and classifies
// the salient point. Discarded draws are not retried, so n is a budget rather than
// a target outcome count. Any oracle or collage error aborts the whole run.
func (e *Engine) Compare(ctx context.Context, group1, group2 []string, n int) (*Outcome, error) {
	if len(group1) == 0 {
		return nil, fmt.Errorf("group 1: %w", ErrEmptyGroup)
	}
	if len(group2) == 0 {
		return nil, fmt.Errorf("group 2: %w", ErrEmptyGroup)
	}
	if n < 0 {
		return nil, fmt.Errorf("sample count must not be negative, got %d", n)
	}

	var bar *progressbar.ProgressBar
	if e.opts.ShowProgress {
		bar = progressbar.NewOptions(n,
			progressbar.OptionSetDescription("Comparing"),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionSetItsString("draws"),
			progressbar.OptionShowElapsedTimeOnFinish(),
			progressbar.OptionSetPredictTime(true),
			progressbar.OptionFullWidth(),
		)
	}

	out := &Outcome{}
	for i := range n {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		img1 := group1[e.opts.Rand.IntN(len(group1))]
		img2 := group2[e.opts.Rand.IntN(len(group2))]

		collagePath := filepath.Join(e.opts.CollageDir, strconv.Itoa(i)+".png")
		if err := e.opts.Compose(img1, img2, collagePath); err != nil {
			return nil, fmt.Errorf("draw %d: %w", i, err)
		}

		point, err := e.oracle.SalientPoint(ctx, collagePath)
		if err != nil {
			return nil, fmt.Errorf("draw %d: saliency oracle %s: %w", i, e.oracle.Name(), err)
		}

		verdict := Classify(point.Y)
		switch verdict {
		case Group1:
			out.ChosenGroup1 = append(out.ChosenGroup1, img1)
			out.NotChosenGroup2 = append(out.NotChosenGroup2, img2)
		case Group2:
			out.ChosenGroup2 = append(out.ChosenGroup2, img2)
			out.NotChosenGroup1 = append(out.NotChosenGroup1, img1)
		default:
			out.Discarded++
		}
		out.Draws++

		e.opts.Logger.Debug("draw classified",
			"draw", i, "x", point.X, "y", point.Y, "verdict", verdict.String())

		if bar != nil {
			bar.Add(1)
		}
		if e.opts.OnProgress != nil {
			e.opts.OnProgress(ProgressInfo{Draw: i + 1, Total: n, Verdict: verdict, Point: point})
		}
	}

	if bar != nil {
		bar.Finish()
		fmt.Println()
	}
	return out, nil
}
