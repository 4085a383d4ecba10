// seed_codigos_postales genera el script SQL que puebla provincias y códigos postales a partir
// del listado oficial en CSV (Latin-1, separado por ';'): provincia;codigo;localidad.
//
// Uso: go run ./cmd/seed_codigos_postales [ruta/codigos_postales.csv]
// Por defecto busca codigos_postales.csv en el directorio actual.
// Escribe: internal/infrastructure/postgres/migrations/002_seed_postal_codes.sql
package main

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

type postalCode struct {
	province string
	code     string
	locality string
}

func main() {
	csvPath := "codigos_postales.csv"
	if len(os.Args) > 1 {
		csvPath = os.Args[1]
	}
	f, err := os.Open(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	rows, err := parseCSV(transform.NewReader(f, charmap.ISO8859_1.NewDecoder()))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}

	moduleRoot := findModuleRoot()
	outPath := filepath.Join(moduleRoot, "internal", "infrastructure", "postgres", "migrations", "002_seed_postal_codes.sql")
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	w := bufio.NewWriter(out)
	provinces := writeSQL(w, rows)
	if err := w.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Generado %s: %d provincias, %d códigos postales\n", outPath, provinces, len(rows))
}

// parseCSV lee provincia;codigo;localidad. Ignora la cabecera y las filas incompletas; los
// códigos numéricos cortos se completan a 5 dígitos (Excel suele comerse el cero inicial).
func parseCSV(r io.Reader) ([]postalCode, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var rows []postalCode
	seen := make(map[string]bool)
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		if len(rec) < 2 {
			continue
		}
		pc := postalCode{province: strings.TrimSpace(rec[0]), code: normalizeCode(rec[1])}
		if len(rec) > 2 {
			pc.locality = strings.TrimSpace(rec[2])
		}
		if pc.province == "" || pc.code == "" || strings.EqualFold(pc.province, "provincia") {
			continue
		}
		key := pc.code + "|" + strings.ToUpper(pc.locality)
		if seen[key] {
			continue
		}
		seen[key] = true
		rows = append(rows, pc)
	}
	return rows, nil
}

func normalizeCode(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || strings.Trim(s, "0123456789") != "" {
		return s
	}
	for len(s) < 5 {
		s = "0" + s
	}
	return s
}

// writeSQL escribe provincias y códigos postales de forma idempotente. Devuelve el número de
// provincias distintas.
func writeSQL(w io.Writer, rows []postalCode) int {
	set := make(map[string]bool)
	for _, r := range rows {
		set[r.province] = true
	}
	provinces := make([]string, 0, len(set))
	for p := range set {
		provinces = append(provinces, p)
	}
	sort.Strings(provinces)

	fmt.Fprint(w, "-- Provincias y códigos postales\n")
	fmt.Fprint(w, "-- Generado por cmd/seed_codigos_postales\n\n")

	if len(provinces) > 0 {
		fmt.Fprint(w, "-- 1. Provincias\n")
		fmt.Fprint(w, "INSERT INTO provinces (name) VALUES\n")
		for i, p := range provinces {
			sep := ","
			if i == len(provinces)-1 {
				sep = ""
			}
			fmt.Fprintf(w, "  ('%s')%s\n", escapeSQL(p), sep)
		}
		fmt.Fprint(w, "ON CONFLICT (name) DO NOTHING;\n\n")
	}

	fmt.Fprint(w, "-- 2. Códigos postales\n")
	for _, r := range rows {
		code, loc := escapeSQL(r.code), escapeSQL(r.locality)
		fmt.Fprint(w, "INSERT INTO postal_codes (code, locality, province_id)\n")
		fmt.Fprintf(w, "SELECT '%s', NULLIF('%s', ''), p.id FROM provinces p WHERE p.name = '%s'\n",
			code, loc, escapeSQL(r.province))
		fmt.Fprintf(w, "  AND NOT EXISTS (SELECT 1 FROM postal_codes pc WHERE pc.code = '%s' AND COALESCE(pc.locality, '') = '%s');\n",
			code, loc)
	}
	return len(provinces)
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
