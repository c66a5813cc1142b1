package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"bestronggym/gym-desk/internal/domain"
	"bestronggym/gym-desk/internal/format"
	"bestronggym/gym-desk/internal/service"

	"github.com/spf13/cobra"
)

func newClientsCmd(st *state) *cobra.Command {
	clientsCmd := &cobra.Command{
		Use:     "clients",
		Aliases: []string{"client"},
		Short:   "Manage registered clients",
	}
	clientsCmd.AddCommand(
		newClientsListCmd(st),
		newClientsAddCmd(st),
		newClientsShowCmd(st),
		newClientsRemoveCmd(st),
		newClientsResetCmd(st),
	)
	return clientsCmd
}

func newClientsListCmd(st *state) *cobra.Command {
	var (
		refresh bool
		sortBy  string
	)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List clients sorted by name or by registration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			order, err := service.ParseClientOrder(sortBy)
			if err != nil {
				return err
			}
			res := st.app.ClientService.ListClients(cmd.Context(), refresh, order)
			st.warnDegraded(cmd, res.Err)
			return st.printClients(cmd, res.Records)
		},
	}
	listCmd.Flags().BoolVar(&refresh, "refresh", true, "re-read the slot")
	listCmd.Flags().StringVar(&sortBy, "sort", string(service.OrderByName), "sort order: name or recent")
	return listCmd
}

func newClientsAddCmd(st *state) *cobra.Command {
	var (
		input          service.RegisterClientInput
		weight, height float64
	)

	addCmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Register or renew a client",
		Long: `Registers a client, or renews the one with the same name (case-insensitive).
Without --months or --days the plan's own duration is used.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input.Name = args[0]
			input.Weight = domain.Float(weight)
			input.Height = domain.Float(height)

			records, err := st.app.ClientService.RegisterClient(cmd.Context(), input)
			if err != nil {
				return err
			}
			return st.printClients(cmd, records)
		},
	}
	addCmd.Flags().StringVar(&input.Plan, "plan", "", "plan name")
	addCmd.Flags().Float64Var(&weight, "weight", 0, "weight in kg")
	addCmd.Flags().Float64Var(&height, "height", 0, "height in cm")
	addCmd.Flags().IntVar(&input.ValidityMonths, "months", 0, "validity in calendar months")
	addCmd.Flags().IntVar(&input.ValidityDays, "days", 0, "validity in days")
	addCmd.Flags().StringVar(&input.ValidityLabel, "label", "", "validity text shown to the client")
	_ = addCmd.MarkFlagRequired("plan")
	return addCmd
}

func newClientsShowCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "show NAME",
		Short: "Show what a client sees when looking themselves up",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := st.app.ClientService.LookupStatus(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if st.jsonOutput {
				return st.printJSON(cmd.OutOrStdout(), status)
			}

			standing := "vencido"
			if status.Active {
				standing = fmt.Sprintf("activo (%d dias restantes)", status.DaysLeft)
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "Nombre:\t%s\n", status.Name)
			fmt.Fprintf(w, "Plan:\t%s (%s)\n", status.Plan, status.PriceText)
			fmt.Fprintf(w, "Peso:\t%s\n", status.WeightText)
			fmt.Fprintf(w, "Altura:\t%s\n", status.HeightText)
			if status.BMI != nil {
				fmt.Fprintf(w, "IMC:\t%.1f (%s)\n", *status.BMI, status.BMICategory)
			}
			fmt.Fprintf(w, "Vigencia:\t%s\n", status.ValidityText)
			fmt.Fprintf(w, "Vence:\t%s\n", status.ExpirationText)
			fmt.Fprintf(w, "Estado:\t%s\n", standing)
			return w.Flush()
		},
	}
}

func newClientsRemoveCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:     "rm NAME",
		Aliases: []string{"remove"},
		Short:   "Remove a client",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := st.app.ClientService.RemoveClient(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return st.printClients(cmd, records)
		},
	}
}

func (st *state) printClients(cmd *cobra.Command, records []domain.Client) error {
	if st.jsonOutput {
		if records == nil {
			records = []domain.Client{}
		}
		return st.printJSON(cmd.OutOrStdout(), records)
	}
	if len(records) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No clients")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "NAME\tPLAN\tVALIDITY\tEXPIRES\t\n")
	for _, c := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n", c.Name, c.Plan, format.Validity(c.Validity()), format.Expiration(c, time.Local))
	}
	return w.Flush()
}

func newClientsResetCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Drop the stored clients and reload them from the seed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := st.app.ClientService.ResetClients(cmd.Context())
			if err != nil {
				return err
			}
			st.warnDegraded(cmd, res.Err)
			return st.printClients(cmd, res.Records)
		},
	}
}
