package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/jhoicas/crm-farma/internal/application/dto"
)

func newProvinciaCmd() *cobra.Command {
	var (
		flags     bulkFlags
		provincia string
	)
	cmd := &cobra.Command{
		Use:   "provincia",
		Short: "Asignar un comercial a todos los códigos postales activos de una provincia",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer e.Close()

			b := flags.request(cmd, nil)
			in := dto.ProvinceAssignmentRequest{
				ComercialID:  b.ComercialID,
				Province:     provincia,
				BrandID:      b.BrandID,
				StartDate:    b.StartDate,
				EndDate:      b.EndDate,
				Priority:     b.Priority,
				Active:       b.Active,
				Observations: b.Observations,
				CreatedBy:    b.CreatedBy,
				Cascade:      b.Cascade,
			}
			start := time.Now()
			res, err := e.province.AssignFromRequest(cmd.Context(), flags.createdBy, in)
			if err != nil {
				return err
			}
			return writeJSON(commandOutput{Command: "provincia", DurationMS: time.Since(start).Milliseconds(), Result: res})
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&provincia, "provincia", "", "ID o nombre de la provincia (requerido)")
	_ = cmd.MarkFlagRequired("provincia")
	return cmd
}
