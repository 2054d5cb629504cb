package cmd

import (
	"fmt"

	"github.com/seichijunrei/seichijunrei/internal/output"
)

// emit prints v as indented JSON or the rendered table, depending on the
// global --output flag.
func emit(format output.Format, renderTable func() string, v any) error {
	if format == output.FormatJSON {
		text, err := output.JSON(v)
		if err != nil {
			return err
		}
		fmt.Println(text)
		return nil
	}
	fmt.Println(renderTable())
	return nil
}
