package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jhoicas/crm-farma/internal/application/dto"
)

func newPrioridadCmd() *cobra.Command {
	var (
		comercial int64
		cp        int64
		fecha     string
	)
	cmd := &cobra.Command{
		Use:   "prioridad",
		Short: "Prioridad efectiva de un comercial sobre un código postal (-1 = sin asignación vigente)",
		RunE: func(cmd *cobra.Command, args []string) error {
			var date *time.Time
			if fecha != "" {
				d, err := time.Parse(dto.DateLayout, fecha)
				if err != nil {
					return fmt.Errorf("--fecha debe ser YYYY-MM-DD: %w", err)
				}
				date = &d
			}
			e, err := newEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer e.Close()

			start := time.Now()
			res, err := e.assignments.EffectivePriority(cmd.Context(), comercial, cp, date)
			if err != nil {
				return err
			}
			return writeJSON(commandOutput{Command: "prioridad", DurationMS: time.Since(start).Milliseconds(), Result: res})
		},
	}
	cmd.Flags().Int64Var(&comercial, "comercial", 0, "ID del comercial (requerido)")
	cmd.Flags().Int64Var(&cp, "cp", 0, "ID del código postal (requerido)")
	cmd.Flags().StringVar(&fecha, "fecha", "", "Fecha de referencia YYYY-MM-DD; por defecto hoy")
	_ = cmd.MarkFlagRequired("comercial")
	_ = cmd.MarkFlagRequired("cp")
	return cmd
}
