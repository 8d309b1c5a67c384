package render

import (
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/inheritx/ixdeploy/internal/usecase"
)

var (
	presentStyle = color.New(color.FgGreen)
	missingStyle = color.New(color.FgRed)
)

// ContractsRenderer renders the contract table with deployment status
type ContractsRenderer struct {
	out io.Writer
}

// NewContractsRenderer creates a new contracts renderer
func NewContractsRenderer(out io.Writer) *ContractsRenderer {
	return &ContractsRenderer{out: out}
}

// RenderContractList renders one row per contract
func (r *ContractsRenderer) RenderContractList(result *usecase.ListContractsResult) error {
	if len(result.Contracts) == 0 {
		fmt.Fprintln(r.out, "No contracts configured")
		return nil
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Contract", "Artifacts", "Output", "Address", "Deployed"})

	for _, c := range result.Contracts {
		artifacts := missingStyle.Sprint("missing")
		if c.ArtifactsPresent {
			artifacts = presentStyle.Sprint("found")
		}

		address, deployed := "-", "-"
		switch {
		case c.Summary != nil:
			address = c.Summary.ContractAddress
			deployed = fmt.Sprintf("%s %s", c.Summary.Network, timestampStyle.Sprint(c.Summary.Timestamp))
		case c.SummaryError != "":
			address = missingStyle.Sprint("unreadable")
		}

		t.AppendRow(table.Row{nameStyle.Sprint(c.Spec.Name), artifacts, c.Spec.Output, address, deployed})
	}

	fmt.Fprintln(r.out, t.Render())
	fmt.Fprintf(r.out, "\n%d contract(s), %d with artifacts, %d deployed\n",
		len(result.Contracts), result.Buildable, result.Deployed)
	return nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
