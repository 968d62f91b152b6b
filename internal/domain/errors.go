package domain

import "errors"

// ErrUnauthorized señala que el broker o proveedor de datos rechazó las
// credenciales. Fatal en el arranque; si aparece a mitad de sesión el
// engine se detiene en vez de seguir operando a ciegas.
var ErrUnauthorized = errors.New("unauthorized: credentials rejected by provider")
