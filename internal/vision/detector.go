// Package vision asks an external detection command what the camera sees.
package vision

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"lull/pkg/shell"
	"lull/pkg/util"
)

var ErrNoDetector = errors.New("no detection command configured")

// Detector runs a command that prints one label per line, most confident
// first. Lines may carry a score after a tab or colon, which is dropped.
type Detector struct {
	Cmd string
	run shell.Runner
}

func NewDetector(cmd string) *Detector {
	return &Detector{Cmd: cmd, run: shell.Exec}
}

func (d *Detector) DetectObjects(ctx context.Context) ([]string, error) {
	if strings.TrimSpace(d.Cmd) == "" {
		return nil, ErrNoDetector
	}
	out, err := shell.Run(ctx, d.run, d.Cmd, nil)
	if err != nil {
		return nil, fmt.Errorf("detect: %w", err)
	}
	return ParseLabels(string(out)), nil
}

// ParseLabels reads detector output into deduplicated labels.
func ParseLabels(out string) []string {
	var labels []string
	for _, line := range strings.Split(out, "\n") {
		label, _, _ := strings.Cut(line, "\t")
		label, _, _ = strings.Cut(label, ":")
		if label = strings.TrimSpace(label); label != "" {
			labels = append(labels, label)
		}
	}
	return util.DedupeFold(labels)
}
