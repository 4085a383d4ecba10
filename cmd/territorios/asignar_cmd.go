package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jhoicas/crm-farma/internal/application/dto"
)

// bulkFlags opciones comunes a asignar y provincia.
type bulkFlags struct {
	comercial    int64
	marca        int64
	desde        string
	hasta        string
	prioridad    int
	inactiva     bool
	observations string
	createdBy    string
	sinCascada   bool
}

func (f *bulkFlags) register(cmd *cobra.Command) {
	cmd.Flags().Int64Var(&f.comercial, "comercial", 0, "ID del comercial (requerido)")
	cmd.Flags().Int64Var(&f.marca, "marca", 0, "ID de marca; 0 = todas")
	cmd.Flags().StringVar(&f.desde, "desde", "", "Inicio de vigencia YYYY-MM-DD")
	cmd.Flags().StringVar(&f.hasta, "hasta", "", "Fin de vigencia YYYY-MM-DD")
	cmd.Flags().IntVar(&f.prioridad, "prioridad", -1, "Prioridad; sin indicar = la configurada por defecto")
	cmd.Flags().BoolVar(&f.inactiva, "inactiva", false, "Crear las asignaciones desactivadas")
	cmd.Flags().StringVar(&f.observations, "observaciones", "", "Observaciones")
	cmd.Flags().StringVar(&f.createdBy, "usuario", os.Getenv("USER"), "Usuario que registra la asignación")
	cmd.Flags().BoolVar(&f.sinCascada, "sin-cascada", false, "No reasignar clientes")
	_ = cmd.MarkFlagRequired("comercial")
}

func (f *bulkFlags) request(cmd *cobra.Command, ids []int64) dto.BulkAssignmentRequest {
	in := dto.BulkAssignmentRequest{
		ComercialID:   f.comercial,
		PostalCodeIDs: ids,
		Observations:  f.observations,
		CreatedBy:     f.createdBy,
	}
	if f.marca != 0 {
		in.BrandID = &f.marca
	}
	if f.desde != "" {
		in.StartDate = &f.desde
	}
	if f.hasta != "" {
		in.EndDate = &f.hasta
	}
	if cmd.Flags().Changed("prioridad") {
		in.Priority = &f.prioridad
	}
	active := !f.inactiva
	in.Active = &active
	cascade := !f.sinCascada
	in.Cascade = &cascade
	return in
}

func newAsignarCmd() *cobra.Command {
	var (
		flags bulkFlags
		cps   []int64
	)
	cmd := &cobra.Command{
		Use:   "asignar",
		Short: "Asignar un comercial a una lista de códigos postales",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer e.Close()

			start := time.Now()
			res, err := e.bulk.AssignFromRequest(cmd.Context(), flags.createdBy, flags.request(cmd, cps))
			if err != nil {
				return err
			}
			return writeJSON(commandOutput{Command: "asignar", DurationMS: time.Since(start).Milliseconds(), Result: res})
		},
	}
	flags.register(cmd)
	cmd.Flags().Int64SliceVar(&cps, "cp", nil, "IDs de código postal separados por comas (requerido)")
	_ = cmd.MarkFlagRequired("cp")
	return cmd
}
