package domain

import "strings"

// Session es el estado de autenticacion que el cliente persiste entre ejecuciones.
// Un campo vacio equivale a "ausente".
type Session struct {
	Token       string `json:"token,omitempty"`
	DisplayName string `json:"userName,omitempty"`
}

// HasToken indica si hay un token guardado. No verifica su validez.
func (s Session) HasToken() bool {
	return strings.TrimSpace(s.Token) != ""
}
