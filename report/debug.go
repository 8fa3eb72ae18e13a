package report

import (
	"io"

	"github.com/bradleyjkemp/memviz"
	"github.com/k0kubun/pp/v3"

	"github.com/sarchlab/pipesim/timing/pipeline"
)

// Dump pretty-prints every field of snap to w without color codes.
func Dump(w io.Writer, snap pipeline.Snapshot) error {
	printer := pp.New()
	printer.SetColoringEnabled(false)

	_, err := printer.Fprintln(w, snap)

	return err
}

// Graph writes a Graphviz dot rendering of snap to w.
func Graph(w io.Writer, snap pipeline.Snapshot) {
	memviz.Map(w, &snap)
}
