package docker

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spongeengine/quantstrap/pkg/errors"
)

// menuTargets maps menu positions to image targets. The numbering is part of
// the interface; scripts feed digits on stdin.
var menuTargets = []struct {
	label  string
	target Target
}{
	{label: "CPU", target: TargetCPU},
	{label: "AMD GPU (ROCm)", target: TargetROCm},
	{label: "NVIDIA GPU (CUDA)", target: TargetCUDA},
}

var menuSources = []struct {
	label  string
	source Source
}{
	{label: "Pull the prebuilt image", source: SourcePull},
	{label: "Build the image locally", source: SourceBuild},
}

// ChooseTarget asks which image variant to use. The suggestion from the GPU
// probe is displayed but never auto-selected; out-of-range input is fatal.
func (l *Launcher) ChooseTarget(suggested Target) (Target, error) {
	prompt := "Which image do you want to use?"

	fmt.Fprintf(l.stdout, "\n%s\n", prompt)
	for i, option := range menuTargets {
		marker := ""
		if option.target == suggested {
			marker = "  (detected)"
		}
		fmt.Fprintf(l.stdout, "  %d) %s%s\n", i+1, option.label, marker)
	}

	choice, err := l.readChoice(prompt, len(menuTargets))
	if err != nil {
		return "", err
	}
	return menuTargets[choice-1].target, nil
}

// ChooseSource asks whether to pull the prebuilt image or build it locally.
func (l *Launcher) ChooseSource() (Source, error) {
	prompt := "How do you want to get the image?"

	fmt.Fprintf(l.stdout, "\n%s\n", prompt)
	for i, option := range menuSources {
		fmt.Fprintf(l.stdout, "  %d) %s\n", i+1, option.label)
	}

	choice, err := l.readChoice(prompt, len(menuSources))
	if err != nil {
		return "", err
	}
	return menuSources[choice-1].source, nil
}

// readChoice reads one line from stdin and parses it as a menu number.
func (l *Launcher) readChoice(prompt string, choices int) (int, error) {
	fmt.Fprintf(l.stdout, "Enter a number [1-%d]: ", choices)

	line, err := l.stdin.ReadString('\n')
	input := strings.TrimSpace(line)
	if err != nil && input == "" {
		return 0, errors.NewChoiceError(prompt, "", choices)
	}

	n, err := strconv.Atoi(input)
	if err != nil || n < 1 || n > choices {
		return 0, errors.NewChoiceError(prompt, input, choices)
	}
	return n, nil
}
