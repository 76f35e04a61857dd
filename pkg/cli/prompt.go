package cli

import (
	"github.com/charmbracelet/huh"

	"github.com/getmockd/apiconv/pkg/portability"
)

// promptTarget asks for a conversion target with a select form. The source
// format is listed but not preselected.
func promptTarget(source portability.Format) (portability.Format, error) {
	var options []huh.Option[string]
	for _, f := range portability.ExportFormats() {
		label := f.DisplayName()
		if f == source {
			label += " (same as source)"
		}
		options = append(options, huh.NewOption(label, string(f)))
	}

	choice := string(portability.FormatPostman)
	if source == portability.FormatPostman {
		choice = string(portability.FormatInsomnia)
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Convert " + source.DisplayName() + " collection to which format?").
				Options(options...).
				Value(&choice),
		),
	)
	if err := form.Run(); err != nil {
		return portability.FormatUnknown, err
	}
	return portability.Format(choice), nil
}
