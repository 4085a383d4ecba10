// territorios es la herramienta de línea de comandos para asignar territorios comerciales sin
// pasar por la API. Usa la misma configuración (.env / variables de entorno) que cmd/api.
//
// Uso:
//
//	territorios asignar --comercial 7 --cp 101,102 --prioridad 5
//	territorios provincia --comercial 7 --provincia Madrid --marca 3
//	territorios prioridad --comercial 7 --cp 101 --fecha 2026-03-10
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
