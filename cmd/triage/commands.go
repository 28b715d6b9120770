package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"triage-advisor/internal/app"
	"triage-advisor/internal/assessment"
	"triage-advisor/internal/pipeline"
	"triage-advisor/internal/report"
)

var (
	intake    assessment.Request
	age       int
	rawOutput bool
	jsonOut   bool
	width     int
	style     string
	flagged   bool
	listKw    bool
	scenario  string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the web intake form and JSON API",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := fullApp(cmd)
		if err != nil {
			return err
		}
		return a.ListenAndServe(cmd.Context())
	},
}

var assessCmd = &cobra.Command{
	Use:   "assess",
	Short: "Run one assessment and print the report",
	Example: `  triage assess --name "Amina Ibrahim" --age 28 --gender female --location Kano \
    --symptoms "fever and joint pains for three days" --checked Fever,Headache`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := fullApp(cmd)
		if err != nil {
			return err
		}
		intake.Age = &age
		out, err := a.Service.Assess(cmd.Context(), intake)
		if err != nil {
			return err
		}
		return printOutcome(cmd.OutOrStdout(), out)
	},
}

var classifyCmd = &cobra.Command{
	Use:   "classify <symptoms>",
	Short: "Run only the emergency screen; no model call is made",
	Args: func(cmd *cobra.Command, args []string) error {
		if listKw {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.MinimumNArgs(1)(cmd, args)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.Offline(cfg, logger)
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		if listKw {
			for _, kw := range a.Classifier.Keywords() {
				fmt.Fprintln(w, kw)
			}
			return nil
		}
		c := a.Classifier.Classify(strings.Join(args, " "), flagged)
		if jsonOut {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(c)
		}
		fmt.Fprintln(w, c.Level)
		fmt.Fprintln(w, c.Summary())
		if c.IsCritical() {
			fmt.Fprintln(w)
			for _, ct := range a.Directory.NationalContacts() {
				fmt.Fprintf(w, "- %s: %s\n", ct.Service, ct.Number)
			}
		}
		return nil
	},
}

var demoCmd = &cobra.Command{
	Use:       "demo",
	Short:     "Run a scripted scenario: emergency, maternal or medicine",
	ValidArgs: assessment.ScenarioNames(),
	RunE: func(cmd *cobra.Command, args []string) error {
		req, ok := assessment.Scenarios[scenario]
		if !ok {
			return fmt.Errorf("unknown scenario %q (choose one of %s)", scenario, strings.Join(assessment.ScenarioNames(), ", "))
		}
		a, err := fullApp(cmd)
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "Patient: %s (%s years old)\nLocation: %s\nSymptoms: %s\n\n", req.Name, req.AgeText(), req.Location, req.Symptoms)
		out, err := a.Service.Assess(cmd.Context(), req)
		if err != nil {
			return err
		}
		return printOutcome(w, out)
	},
}

func init() {
	f := assessCmd.Flags()
	f.StringVar(&intake.Name, "name", "", "patient name (required)")
	f.IntVar(&age, "age", pipeline.DefaultAge, "patient age")
	f.StringVar(&intake.Gender, "gender", "other", "male, female or other")
	f.StringVar(&intake.Location, "location", "", "city or state (default Nigeria)")
	f.StringVar(&intake.Phone, "phone", "", "phone number")
	f.StringVar(&intake.MedicalHistory, "history", "", "relevant medical history")
	f.StringVar(&intake.Symptoms, "symptoms", "", "symptom description (required)")
	f.StringVar(&intake.Severity, "severity", "moderate", "mild, moderate, severe or very-severe")
	f.StringSliceVar(&intake.CheckedSymptoms, "checked", nil, "checked symptom labels, comma separated")
	f.BoolVar(&intake.Emergency, "emergency", false, "the patient reports a medical emergency")
	_ = assessCmd.MarkFlagRequired("name")
	_ = assessCmd.MarkFlagRequired("symptoms")

	classifyCmd.Flags().BoolVar(&flagged, "emergency", false, "the patient reports a medical emergency")
	classifyCmd.Flags().BoolVar(&jsonOut, "json", false, "print the classification as JSON")
	classifyCmd.Flags().BoolVar(&listKw, "keywords", false, "list the phrases treated as critical and exit")

	demoCmd.Flags().StringVar(&scenario, "scenario", "maternal", "scenario to run: "+strings.Join(assessment.ScenarioNames(), ", "))

	for _, c := range []*cobra.Command{assessCmd, demoCmd} {
		c.Flags().BoolVar(&rawOutput, "raw", false, "print Markdown without terminal styling")
		c.Flags().IntVar(&width, "width", 100, "wrap width for styled output")
		c.Flags().StringVar(&style, "style", "", "glamour style: dark, light, notty (default auto)")
	}
}

// fullApp validates the configuration and builds the model-backed application.
func fullApp(cmd *cobra.Command) (*app.App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return app.New(cmd.Context(), cfg, logger)
}

func printOutcome(w io.Writer, out *pipeline.Outcome) error {
	md := out.Markdown()
	if out.Report != nil {
		md = report.Markdown(out.Report)
	}
	if rawOutput {
		_, err := fmt.Fprintln(w, md)
		return err
	}
	rendered, err := report.RenderTerminal(md, width, style)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(w, rendered)
	return err
}
