package cmd

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"attendance/services/payroll"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

type PayrollOptions struct {
	Employer string
	Month    string
	Save     bool
	JSON     bool
}

var popts PayrollOptions

var payrollCmd = &cobra.Command{
	Use:   "payroll --employer <id> --month YYYY-MM",
	Short: "Compute, and optionally save, one employer's payroll for a month",
	RunE: func(cmd *cobra.Command, args []string) error {
		employerID, err := uuid.Parse(popts.Employer)
		if err != nil {
			return fmt.Errorf("--employer: %w", err)
		}

		app, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer app.close()

		svc := app.services(nil).Payroll
		if popts.Save {
			if _, err := svc.RunPayroll(cmd.Context(), employerID, popts.Month); err != nil {
				return err
			}
		}
		lines, err := svc.ComputePayroll(cmd.Context(), employerID, popts.Month)
		if err != nil {
			return err
		}

		if popts.JSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(lines)
		}
		return printLines(os.Stdout, lines)
	},
}

func init() {
	payrollCmd.Flags().StringVarP(&popts.Employer, "employer", "e", "", "Employer id")
	payrollCmd.Flags().StringVarP(&popts.Month, "month", "m", "", "Month as YYYY-MM")
	payrollCmd.Flags().BoolVar(&popts.Save, "save", false, "Persist the lines as the month's payroll run")
	payrollCmd.Flags().BoolVar(&popts.JSON, "json", false, "Print JSON instead of a table")
	_ = payrollCmd.MarkFlagRequired("employer")
	_ = payrollCmd.MarkFlagRequired("month")
	rootCmd.AddCommand(payrollCmd)
}

func printLines(out io.Writer, lines []payroll.Line) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "CODE\tNAME\tSALARY\tLATE\tLATE MIN\tABSENT\tDEDUCTIONS\tNET\t")
	for _, l := range lines {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%s\t%s\t\n",
			l.EmployeeCode, l.EmployeeName, l.Salary.StringFixed(2),
			l.LatenessCount, l.TotalLateMinutes, l.AbsentDays,
			l.TotalDeductions.StringFixed(2), l.NetSalary.StringFixed(2))
	}
	return w.Flush()
}
