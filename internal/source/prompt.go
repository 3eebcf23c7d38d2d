// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"

	"github.com/pdiddy/resconv/pkg/types"
)

// AskFunc matches survey.AskOne so tests can answer without a terminal.
type AskFunc func(p survey.Prompt, response interface{}, opts ...survey.AskOpt) error

// InteractivePrompt asks the user for a document path on the terminal. The
// prompt repeats until the answer names an existing .docx or .pdf file.
type InteractivePrompt struct {
	Ask AskFunc
}

func (p InteractivePrompt) Fetch(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	ask := p.Ask
	if ask == nil {
		ask = survey.AskOne
	}

	var answer string
	prompt := &survey.Input{
		Message: "Path to a DOCX or PDF resume:",
		Help:    "The file is converted to the opposite format.",
	}
	if err := ask(prompt, &answer, survey.WithValidator(ValidateAnswer)); err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			return "", types.NewError(types.KindNoUploadProvided, "prompt interrupted, no file selected", nil)
		}
		return "", types.NewError(types.KindNoUploadProvided, "could not read a file from the prompt", err)
	}

	if err := ValidateAnswer(answer); err != nil {
		return "", types.NewError(types.KindInvalidInput, err.Error(), nil)
	}
	return checkFile(expandHome(strings.TrimSpace(answer)))
}

// ValidateAnswer is the survey validator: it rejects empty answers, missing
// files and unsupported extensions so the prompt asks again.
func ValidateAnswer(ans interface{}) error {
	s, ok := ans.(string)
	if !ok {
		return errors.New("expected a file path")
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return errors.New("no file given, try again")
	}
	if _, ok := types.FormatOf(s); !ok {
		return fmt.Errorf("%q is not a DOCX/PDF, please choose a supported file", filepath.Base(s))
	}
	if _, err := os.Stat(expandHome(s)); err != nil {
		return fmt.Errorf("%s does not exist", s)
	}
	return nil
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
