package app

import (
	"errors"
	"fmt"
	"io"

	"github.com/hashicorp/hcl/v2"

	"github.com/specialistvlad/dotgrid/internal/errs"
	"github.com/specialistvlad/dotgrid/internal/selector"
)

// WriteError prints err for a human. Aggregated errors are printed one by
// one; selector syntax errors get a source snippet pointing at the problem.
func WriteError(w io.Writer, err error) {
	if multi, ok := err.(*errs.Multi); ok {
		for _, e := range multi.Errors {
			writeOne(w, e)
		}
		return
	}
	writeOne(w, err)
}

func writeOne(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %v\n", err)

	var syntax selector.Errors
	if !errors.As(err, &syntax) || len(syntax) == 0 {
		return
	}
	files := map[string]*hcl.File{
		selector.SourceName: {Bytes: []byte(syntax[0].Source)},
	}
	dw := hcl.NewDiagnosticTextWriter(w, files, 0, false)
	if werr := dw.WriteDiagnostics(syntax.Diagnostics()); werr != nil {
		fmt.Fprintf(w, "(could not render diagnostics: %v)\n", werr)
	}
}
