package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/inheritx/ixdeploy/internal/domain/models"
	"github.com/inheritx/ixdeploy/internal/usecase"
)

var (
	labelStyle   = color.New(color.Faint)
	nameStyle    = color.New(color.FgCyan, color.Bold)
	addressStyle = color.New(color.FgWhite)
	sourceStyle  = color.New(color.FgHiBlack)

	timestampStyle = color.New(color.Faint)
)

// DeployRenderer renders single-contract results
type DeployRenderer struct {
	out io.Writer
}

// NewDeployRenderer creates a new deploy renderer
func NewDeployRenderer(out io.Writer) *DeployRenderer {
	return &DeployRenderer{out: out}
}

// RenderDeployResult renders the outcome of a deployment run
func (r *DeployRenderer) RenderDeployResult(result *usecase.DeployContractResult) error {
	if result.Aborted {
		fmt.Fprintln(r.out, "Deployment cancelled")
		return nil
	}
	if result.DryRun {
		r.renderArgs(result.Contract, result.Args)
		fmt.Fprintln(r.out)
		color.New(color.FgYellow).Fprintf(r.out, "Dry run on %s: nothing was submitted\n", NetworkDisplayName(result.Network))
		return nil
	}

	fmt.Fprintln(r.out)
	if result.Summary != nil {
		r.renderSummary(result.Summary)
	}
	if result.SummaryPath != "" {
		fmt.Fprintf(r.out, "\n%s %s\n", labelStyle.Sprint("Summary written to"), result.SummaryPath)
	}
	r.renderWarnings(result.Warnings)
	return nil
}

// RenderCalldata renders resolved constructor arguments and their encoding
func (r *DeployRenderer) RenderCalldata(result *usecase.BuildCalldataResult) error {
	r.renderArgs(result.Contract, result.Args)
	r.renderWarnings(result.Warnings)
	return nil
}

// RenderSummary renders a stored summary
func (r *DeployRenderer) RenderSummary(result *usecase.ShowSummaryResult) error {
	r.renderSummary(result.Summary)
	fmt.Fprintf(r.out, "\n%s %s\n", labelStyle.Sprint("File:"), result.Path)
	return nil
}

// RenderVerification renders the outcome of a verify run
func (r *DeployRenderer) RenderVerification(result *usecase.VerifyDeploymentResult) error {
	nameStyle.Fprintf(r.out, "%s", result.Contract.Name)
	fmt.Fprintf(r.out, " at %s\n", addressStyle.Sprint(result.Summary.ContractAddress))
	r.renderVerificationInfo(result.Info)
	r.renderWarnings(result.Warnings)
	return nil
}

func (r *DeployRenderer) renderSummary(s *models.Summary) {
	nameStyle.Fprintf(r.out, "%s\n", s.ContractName)
	fmt.Fprintln(r.out, strings.Repeat("─", 70))

	t := newKeyValueTable()
	t.AppendRow(table.Row{"Network", orDash(s.Network)})
	if s.ChainID != "" {
		t.AppendRow(table.Row{"Chain ID", s.ChainID})
	}
	t.AppendRow(table.Row{"Account", orDash(s.Account)})
	t.AppendRow(table.Row{"Address", addressStyle.Sprint(s.ContractAddress)})
	t.AppendRow(table.Row{"Class hash", s.ClassHash})
	if s.Tx.Declare != "" {
		t.AppendRow(table.Row{"Declare tx", s.Tx.Declare})
	} else {
		t.AppendRow(table.Row{"Declare tx", sourceStyle.Sprint("already declared")})
	}
	t.AppendRow(table.Row{"Deploy tx", s.Tx.Deploy})
	t.AppendRow(table.Row{"Deployed at", orDash(s.Timestamp)})
	fmt.Fprintln(r.out, t.Render())

	if len(s.ConstructorArgs) > 0 {
		fmt.Fprintf(r.out, "\nConstructor calldata: [%s]\n", strings.Join(s.ConstructorArgs, ", "))
	}
	if len(s.ConstructorInputs) > 0 {
		fmt.Fprintln(r.out, "Constructor inputs:")
		for _, name := range sortedKeys(s.ConstructorInputs) {
			fmt.Fprintf(r.out, "  %s = %s\n", name, s.ConstructorInputs[name])
		}
	}
	if s.Verification != nil {
		fmt.Fprintln(r.out)
		r.renderVerificationInfo(s.Verification)
	}
}

func (r *DeployRenderer) renderArgs(spec *models.ContractSpec, args *models.ConstructorArgs) {
	if spec != nil {
		nameStyle.Fprintf(r.out, "%s", spec.Name)
		fmt.Fprintf(r.out, " %s\n", labelStyle.Sprintf("(%s)", spec.Artifact))
	}
	if args == nil || len(args.Args) == 0 {
		fmt.Fprintln(r.out, "Constructor takes no arguments")
		return
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Argument", "Type", "Value", "Source", "Felts"})
	for _, arg := range args.Args {
		source := string(arg.Source)
		if arg.Detail != "" {
			source = fmt.Sprintf("%s (%s)", source, arg.Detail)
		}
		felts := make([]string, len(arg.Felts))
		for i, f := range arg.Felts {
			felts[i] = f.Hex()
		}
		t.AppendRow(table.Row{
			arg.Name,
			shortType(arg.Type),
			models.FormatValue(arg.Value),
			sourceStyle.Sprint(source),
			strings.Join(felts, " "),
		})
	}
	fmt.Fprintln(r.out, t.Render())

	calldata := make([]string, len(args.Calldata))
	for i, f := range args.Calldata {
		calldata[i] = f.Dec()
	}
	fmt.Fprintf(r.out, "Calldata (%d felts): [%s]\n", len(calldata), strings.Join(calldata, ", "))
}

func (r *DeployRenderer) renderVerificationInfo(info *models.VerificationInfo) {
	if info == nil {
		return
	}
	status := cases.Title(language.English).String(strings.ToLower(string(info.Status)))

	var c *color.Color
	switch info.Status {
	case models.VerificationPassed:
		c = color.New(color.FgGreen)
	case models.VerificationMismatch, models.VerificationErrored:
		c = color.New(color.FgYellow)
	default:
		c = color.New(color.FgHiBlack)
	}

	fmt.Fprintf(r.out, "Verification: %s", c.Sprint(status))
	if info.Getter != "" && info.Actual != "" {
		fmt.Fprintf(r.out, " %s", labelStyle.Sprintf("(%s() = %s)", info.Getter, info.Actual))
	}
	fmt.Fprintln(r.out)
	if info.Detail != "" && info.Status != models.VerificationPassed {
		fmt.Fprintf(r.out, "  %s\n", info.Detail)
	}
}

func (r *DeployRenderer) renderWarnings(warnings []string) {
	if len(warnings) == 0 {
		return
	}
	fmt.Fprintln(r.out)
	for _, w := range warnings {
		fmt.Fprintln(r.out, FormatWarning(w))
	}
}

func newKeyValueTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateColumns = false
	t.Style().Options.SeparateHeader = false
	t.Style().Box = table.BoxStyle{PaddingRight: "   "}
	return t
}

// shortType drops the module path: core::integer::u256 -> u256
func shortType(t string) string {
	if i := strings.LastIndex(t, "::"); i >= 0 && !strings.Contains(t, "<") {
		return t[i+2:]
	}
	return t
}
