package cmd

import (
	"fmt"
	"text/tabwriter"

	"bestronggym/gym-desk/internal/domain"
	"bestronggym/gym-desk/internal/format"
	"bestronggym/gym-desk/internal/service"

	"github.com/spf13/cobra"
)

func newMembershipsCmd(st *state) *cobra.Command {
	membershipsCmd := &cobra.Command{
		Use:     "memberships",
		Aliases: []string{"membership", "plans"},
		Short:   "Manage the memberships offered to visitors",
	}
	membershipsCmd.AddCommand(
		newMembershipsListCmd(st),
		newMembershipsAddCmd(st),
		newMembershipsRecommendCmd(st),
		newMembershipsRemoveCmd(st),
		newMembershipsResetCmd(st),
	)
	return membershipsCmd
}

func newMembershipsListCmd(st *state) *cobra.Command {
	var refresh bool

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List memberships",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res := st.app.MembershipService.ListMemberships(cmd.Context(), refresh)
			st.warnDegraded(cmd, res.Err)
			if err := st.printMemberships(cmd, res.Records); err != nil {
				return err
			}
			if m, ok := st.app.MembershipService.RecommendedMembership(cmd.Context()); ok && !st.jsonOutput {
				fmt.Fprintf(cmd.OutOrStdout(), "\nRecommended: %s (%s)\n", m.Name, format.COP(m.PriceValue()))
			}
			return nil
		},
	}
	listCmd.Flags().BoolVar(&refresh, "refresh", true, "re-read the slot")
	return listCmd
}

func newMembershipsAddCmd(st *state) *cobra.Command {
	var (
		input       service.MembershipInput
		price       float64
		recommended bool
	)

	addCmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Create or update a membership",
		Long: `Creates a membership, or updates the one with the same name (case-insensitive).
--price and --recommended are only applied when given, so an update keeps
the stored values otherwise.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input.Name = args[0]
			if cmd.Flags().Changed("price") {
				input.Price = &price
			}
			if cmd.Flags().Changed("recommended") {
				input.Recommended = &recommended
			}
			records, err := st.app.MembershipService.SaveMembership(cmd.Context(), input)
			if err != nil {
				return err
			}
			return st.printMemberships(cmd, records)
		},
	}
	addCmd.Flags().IntVar(&input.DurationDays, "days", 0, "duration in days")
	addCmd.Flags().Float64Var(&price, "price", 0, "price in COP")
	addCmd.Flags().BoolVar(&recommended, "recommended", false, "make it the recommended membership (--recommended=false clears it)")
	return addCmd
}

func newMembershipsRecommendCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "recommend [NAME]",
		Short: "Mark one membership as recommended; without NAME the flag is cleared",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			records, err := st.app.MembershipService.Recommend(cmd.Context(), name)
			if err != nil {
				return err
			}
			return st.printMemberships(cmd, records)
		},
	}
}

func newMembershipsRemoveCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:     "rm NAME",
		Aliases: []string{"remove"},
		Short:   "Remove a membership",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := st.app.MembershipService.RemoveMembership(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return st.printMemberships(cmd, records)
		},
	}
}

func newMembershipsResetCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Drop the stored memberships and reload them from the seed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := st.app.MembershipService.ResetMemberships(cmd.Context())
			if err != nil {
				return err
			}
			st.warnDegraded(cmd, res.Err)
			return st.printMemberships(cmd, res.Records)
		},
	}
}

func (st *state) printMemberships(cmd *cobra.Command, records []domain.Membership) error {
	if st.jsonOutput {
		if records == nil {
			records = []domain.Membership{}
		}
		return st.printJSON(cmd.OutOrStdout(), records)
	}
	if len(records) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No memberships")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "NAME\tDURATION\tPRICE\tRECOMMENDED\t\n")
	for _, m := range records {
		mark := ""
		if m.IsRecommended() {
			mark = "*"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n", m.Name, format.Validity(domain.Validity{Days: m.DurationDays}), format.COP(m.PriceValue()), mark)
	}
	return w.Flush()
}
