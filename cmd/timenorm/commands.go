package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/hrygo/timenorm/internal/profile"
	"github.com/hrygo/timenorm/plugin/normalizer"
	"github.com/hrygo/timenorm/plugin/temporal"
	"github.com/hrygo/timenorm/server/scheduler/rrule"
	"github.com/hrygo/timenorm/server/timezone"
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize [file]",
	Short: "Normalize the mentions of a JSON request read from a file or stdin",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		instanceProfile, err := loadProfile()
		if err != nil {
			return err
		}
		in := cmd.InOrStdin()
		if len(args) == 1 && args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			in = f
		}
		reference, _ := cmd.Flags().GetString("reference")
		return runNormalize(cmd.Context(), cmd.OutOrStdout(), in, instanceProfile, reference)
	},
}

var expandCmd = &cobra.Command{
	Use:   "expand <expr>",
	Short: "Print the RRULE and occurrences of a recurring set expression",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		instanceProfile, err := loadProfile()
		if err != nil {
			return err
		}
		from, _ := cmd.Flags().GetString("from")
		until, _ := cmd.Flags().GetString("until")
		limit, _ := cmd.Flags().GetInt("max")
		return runExpand(cmd.OutOrStdout(), args[0], from, until, instanceProfile.DefaultTimezone, limit)
	},
}

var constantsCmd = &cobra.Command{
	Use:   "constants [prefix]",
	Short: "List the named temporal constants",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		prefix := ""
		if len(args) == 1 {
			prefix = args[0]
		}
		return runConstants(cmd.OutOrStdout(), prefix)
	},
}

func init() {
	normalizeCmd.Flags().String("reference", "", "reference time, overrides the request's")
	expandCmd.Flags().String("from", "", "first day of the range to expand")
	expandCmd.Flags().String("until", "", "last day of the range to expand")
	expandCmd.Flags().Int("max", 20, "maximum number of occurrences")
}

func runNormalize(ctx context.Context, w io.Writer, in io.Reader, p *profile.Profile, reference string) error {
	var req normalizer.Request
	if err := json.NewDecoder(in).Decode(&req); err != nil {
		return errors.Wrap(err, "failed to read request")
	}
	if reference != "" {
		req.Reference = reference
	}
	if req.Timezone == "" {
		req.Timezone = p.DefaultTimezone
	}
	loc, err := timezone.ParseTimezone(req.Timezone)
	if err != nil {
		return err
	}
	req.Location = loc

	s, err := normalizer.NewService(normalizer.Config{
		Direction: p.ResolveDirection,
		MaxDepth:  p.MaxResolveDepth,
		Workers:   p.Workers,
	})
	if err != nil {
		return err
	}
	doc, err := s.Normalize(ctx, &req)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func runExpand(w io.Writer, expr, from, until, tz string, limit int) error {
	e, err := normalizer.Decode([]byte(expr))
	if err != nil {
		return err
	}
	t, err := normalizer.Build(e)
	if err != nil {
		return err
	}
	set, ok := t.(*temporal.PeriodicTemporalSet)
	if !ok {
		return errors.Errorf("%s is not a recurring set", temporal.ISO(t))
	}
	if set, err = rrule.Bound(set, from, until); err != nil {
		return err
	}
	rule, err := rrule.FromSet(set)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "RRULE:%s\n", rule)
	if from == "" {
		return nil
	}
	loc, err := timezone.ParseTimezone(tz)
	if err != nil {
		return err
	}
	occurrences, err := rrule.Expand(set, loc, limit)
	if err != nil {
		return err
	}
	for _, o := range occurrences {
		fmt.Fprintln(w, o.In(loc).Format("2006-01-02T15:04:05Z07:00"))
	}
	return nil
}

func runConstants(w io.Writer, prefix string) error {
	prefix = strings.ToUpper(prefix)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tTYPE\tVALUE")
	for _, name := range temporal.Constants() {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		t, _ := temporal.Constant(name)
		fmt.Fprintf(tw, "%s\t%s\t%s\n", name, t.TimexType(), temporal.TimexValue(t))
	}
	return tw.Flush()
}
