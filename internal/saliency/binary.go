package saliency

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
)

const cropBinaryName = "candidate_crops"

// platformDirs maps GOOS to the directory holding the prebuilt candidate_crops binary.
var platformDirs = map[string]string{
	"darwin": "mac",
	"linux":  "linux",
}

// BinaryOracle shells out to the candidate_crops saliency binary.
type BinaryOracle struct {
	binaryPath string
	modelPath  string
}

// CropOutput is the parsed stdout of candidate_crops.
type CropOutput struct {
	SalientPoint Point
	// Crops are the four-integer lines.
	Crops [][4]int
	// ExtraPoints are two-integer lines after the first one.
	ExtraPoints      []Point
	AllSalientPoints [][3]float64
}

// NewBinaryOracle resolves bin/<platform>/candidate_crops for the host operating system.
func NewBinaryOracle(binDir, modelPath string) (*BinaryOracle, error) {
	dir, ok := platformDirs[runtime.GOOS]
	if !ok {
		return nil, fmt.Errorf("saliency binary is not available for %s", runtime.GOOS)
	}
	return NewBinaryOracleAt(filepath.Join(binDir, dir, cropBinaryName), modelPath), nil
}

// NewBinaryOracleAt uses an explicit binary path.
func NewBinaryOracleAt(binaryPath, modelPath string) *BinaryOracle {
	return &BinaryOracle{binaryPath: binaryPath, modelPath: modelPath}
}

// Name implements Oracle.
func (o *BinaryOracle) Name() string {
	return cropBinaryName
}

// SalientPoint implements Oracle.
func (o *BinaryOracle) SalientPoint(ctx context.Context, imagePath string) (Point, error) {
	out, err := o.Run(ctx, imagePath)
	if err != nil {
		return Point{}, err
	}
	return out.SalientPoint, nil
}

// Run executes the binary against imagePath and parses everything it prints.
func (o *BinaryOracle) Run(ctx context.Context, imagePath string) (*CropOutput, error) {
	if _, err := os.Stat(o.binaryPath); err != nil {
		return nil, fmt.Errorf("saliency binary not found: %w", err)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, o.binaryPath, o.modelPath, imagePath, "show_all_points") //nolint:gosec // paths come from configuration
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s failed: %w (stderr: %s)", cropBinaryName, err, strings.TrimSpace(stderr.String()))
	}

	out, err := ParseCropOutput(stdout.Bytes())
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s output: %w", cropBinaryName, err)
	}
	return out, nil
}

// ParseCropOutput parses candidate_crops stdout. The first line holds the salient
// point as two integers. Later four-integer lines are crops, later two-integer
// lines are extra points and three-float lines are the individual salient points.
func ParseCropOutput(data []byte) (*CropOutput, error) {
	out := &CropOutput{}
	seenPoint := false

	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNo := 0
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		lineNo++

		switch len(fields) {
		case 2, 4:
			values, err := parseInts(fields)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			switch {
			case len(values) == 2 && lineNo == 1:
				out.SalientPoint = Point{X: values[0], Y: values[1]}
				seenPoint = true
			case len(values) == 2:
				out.ExtraPoints = append(out.ExtraPoints, Point{X: values[0], Y: values[1]})
			default:
				out.Crops = append(out.Crops, [4]int(values))
			}
		case 3:
			var p [3]float64
			for i, f := range fields {
				v, err := strconv.ParseFloat(f, 64)
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNo, err)
				}
				p[i] = v
			}
			out.AllSalientPoints = append(out.AllSalientPoints, p)
		default:
			return nil, fmt.Errorf("line %d: unexpected line %q", lineNo, scanner.Text())
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if !seenPoint {
		return nil, errors.New("no salient point in output")
	}
	return out, nil
}

func parseInts(fields []string) ([]int, error) {
	values := make([]int, len(fields))
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}
