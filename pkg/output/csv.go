package output

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/iwvelando/loan-payoff/internal/calculator"
	"github.com/iwvelando/loan-payoff/pkg/datetime"
	"github.com/iwvelando/loan-payoff/pkg/loans"
	"github.com/shopspring/decimal"
)

// ScheduleHeader is the column header of a schedule export.
var ScheduleHeader = []string{
	"period", "start_balance", "payment", "extra", "interest",
	"principal", "end_balance", "cumulative_interest",
}

// WriteScheduleCSV writes one line per row of schedule, amounts in cents.
func WriteScheduleCSV(w io.Writer, schedule *loans.Schedule) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(ScheduleHeader); err != nil {
		return err
	}
	if schedule != nil {
		for _, row := range schedule.Rows {
			if err := writer.Write(scheduleRecord(row)); err != nil {
				return err
			}
		}
	}
	writer.Flush()
	return writer.Error()
}

// CsvFormat writes the selected schedule of every result, prefixed with the
// loan name and calendar month. Results without a prepayment schedule fall
// back to their base schedule.
func CsvFormat(w io.Writer, results []*calculator.Result, scheduleName string) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(append([]string{"loan", "month"}, ScheduleHeader...)); err != nil {
		return err
	}
	for _, result := range results {
		schedule := result.Schedule(scheduleName)
		if schedule == nil {
			schedule = result.Base
		}
		for _, row := range schedule.Rows {
			month := ""
			if result.StartDate != "" {
				date, err := datetime.PeriodDate(result.StartDate, row.Period)
				if err != nil {
					return err
				}
				month = date
			}
			record := append([]string{result.Name, month}, scheduleRecord(row)...)
			if err := writer.Write(record); err != nil {
				return err
			}
		}
	}
	writer.Flush()
	return writer.Error()
}

// CsvString returns the WriteScheduleCSV rendering of schedule.
func CsvString(schedule *loans.Schedule) (string, error) {
	var builder strings.Builder
	if err := WriteScheduleCSV(&builder, schedule); err != nil {
		return "", err
	}
	return builder.String(), nil
}

func scheduleRecord(row loans.Row) []string {
	return []string{
		strconv.Itoa(row.Period),
		cents(row.StartBalance),
		cents(row.Payment),
		cents(row.Extra),
		cents(row.Interest),
		cents(row.Principal),
		cents(row.EndBalance),
		cents(row.CumulativeInterest),
	}
}

func cents(amount float64) string {
	return decimal.NewFromFloat(amount).StringFixed(2)
}
