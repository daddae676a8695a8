package commands

import (
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/log"

	"github.com/codeninja55/go-radx/cmd/radx/internal/config"
	"github.com/codeninja55/go-radx/cmd/radx/internal/dicom/ui"
	"github.com/codeninja55/go-radx/dicom/anonymize"
)

// AnonymizeCmd de-identifies one DICOM file.
type AnonymizeCmd struct {
	Input  string `arg:"" type:"existingfile" help:"DICOM file to anonymize"`
	Output string `name:"output" short:"o" required:"" help:"Path to write the anonymized file to"`
	Force  bool   `name:"force" short:"f" help:"Overwrite the output file without prompting"`

	Config string `name:"config" type:"existingfile" help:"JSON policy file (see 'radx config create'); overrides all other policy flags"`

	UIDRoot           string   `name:"uid-root" default:"9999" help:"UID root prefixed to every re-minted UID"`
	RemovePrivateTags bool     `name:"remove-private-tags" default:"true" negatable:"" help:"Remove private (odd-group) tags not explicitly kept"`
	RemoveCurves      bool     `name:"remove-curves" default:"true" negatable:"" help:"Remove the curve data repeating group (0x5000-0x50FF)"`
	RemoveOverlays    bool     `name:"remove-overlays" default:"true" negatable:"" help:"Remove the overlay plane repeating group (0x6000-0x60FF)"`
	Keep              []string `name:"keep" help:"Tag (GGGG,EEEE or GGGGEEEE) to force Keep, overriding any bulk policy or default profile entry"`
}

// Run executes the anonymize command.
func (c *AnonymizeCmd) Run(cfg *config.GlobalConfig) error {
	ui.PrintBanner()
	logger := log.Default()

	if err := c.confirmOverwrite(); err != nil {
		return err
	}

	anonymizer, err := c.buildAnonymizer()
	if err != nil {
		return fmt.Errorf("failed to build anonymizer: %w", err)
	}

	in, err := os.Open(c.Input)
	if err != nil {
		return fmt.Errorf("failed to open input: %w", err)
	}
	defer in.Close()

	logger.Info("anonymizing", "input", c.Input)
	artifact, err := anonymizer.Anonymize(in)
	if err != nil {
		return fmt.Errorf("anonymize failed: %w", err)
	}

	out, err := os.Create(c.Output)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	defer out.Close()

	if err := artifact.Write(out); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	logger.Info("anonymized", "output", c.Output, "elements", artifact.Dataset().Len())
	return nil
}

// confirmOverwrite prompts before clobbering an existing output file unless
// --force was given.
func (c *AnonymizeCmd) confirmOverwrite() error {
	if c.Force {
		return nil
	}
	if _, err := os.Stat(c.Output); err != nil {
		return nil
	}

	var proceed bool
	prompt := huh.NewConfirm().
		Title(fmt.Sprintf("%s already exists. Overwrite?", c.Output)).
		Affirmative("Overwrite").
		Negative("Cancel").
		Value(&proceed)
	if err := prompt.Run(); err != nil {
		return fmt.Errorf("prompt failed: %w", err)
	}
	if !proceed {
		return fmt.Errorf("aborted: %s already exists", c.Output)
	}
	return nil
}

func (c *AnonymizeCmd) buildAnonymizer() (*anonymize.Anonymizer, error) {
	if c.Config != "" {
		f, err := os.Open(c.Config)
		if err != nil {
			return nil, fmt.Errorf("failed to open config: %w", err)
		}
		defer f.Close()
		conf, err := anonymize.LoadConfig(f)
		if err != nil {
			return nil, err
		}
		return anonymize.New(conf)
	}

	conf, err := buildConfig(c.UIDRoot, c.RemovePrivateTags, c.RemoveCurves, c.RemoveOverlays, c.Keep)
	if err != nil {
		return nil, err
	}
	return anonymize.New(conf)
}
