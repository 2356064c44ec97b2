package session

import (
	"errors"
	"sync"

	"go.uber.org/zap"

	"library-lending/internal/domain"
)

// Claves de almacenamiento, compartidas por todos los backends.
const (
	TokenKey       = "token"
	DisplayNameKey = "userName"
)

// KV abstrae el almacenamiento persistente clave/valor de la sesion.
// Get devuelve "" sin error cuando la clave no existe.
type KV interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
}

// Listener recibe la sesion vigente cada vez que cambia el estado de login.
type Listener func(domain.Session)

type subscription struct {
	id int
	fn Listener
}

// Context es el dueño de la sesion: lee y escribe el KV y avisa a los
// suscriptores de cada cambio de estado de login.
type Context struct {
	mu        sync.Mutex
	kv        KV
	logger    *zap.Logger
	listeners []subscription
	nextID    int
}

// NewContext construye un contexto de sesion sobre el KV dado.
func NewContext(kv KV, logger *zap.Logger) *Context {
	if kv == nil {
		kv = NewMemoryKV()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Context{kv: kv, logger: logger}
}

// Get devuelve la sesion guardada. Un error de lectura se trata como ausencia.
func (c *Context) Get() domain.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.load()
}

func (c *Context) load() domain.Session {
	token, err := c.kv.Get(TokenKey)
	if err != nil {
		c.logger.Warn("session token read failed", zap.Error(err))
		return domain.Session{}
	}
	name, err := c.kv.Get(DisplayNameKey)
	if err != nil {
		c.logger.Warn("session display name read failed", zap.Error(err))
	}
	return domain.Session{Token: token, DisplayName: name}
}

// Set guarda token y nombre visible y emite "login state changed".
func (c *Context) Set(token, displayName string) error {
	c.mu.Lock()
	err := c.kv.Set(TokenKey, token)
	if err == nil {
		if displayName == "" {
			err = c.kv.Delete(DisplayNameKey)
		} else {
			err = c.kv.Set(DisplayNameKey, displayName)
		}
	}
	current := c.load()
	c.mu.Unlock()

	if err != nil {
		c.logger.Error("session write failed", zap.Error(err))
	}
	c.broadcast(current)
	return err
}

// Clear borra ambos campos. Es idempotente.
func (c *Context) Clear() error {
	c.mu.Lock()
	err := errors.Join(c.kv.Delete(TokenKey), c.kv.Delete(DisplayNameKey))
	c.mu.Unlock()

	if err != nil {
		c.logger.Error("session clear failed", zap.Error(err))
	}
	c.broadcast(domain.Session{})
	return err
}

// Notify emite "login state changed" sin modificar la sesion.
func (c *Context) Notify() {
	c.broadcast(c.Get())
}

// Subscribe registra un listener y devuelve la funcion para darlo de baja.
func (c *Context) Subscribe(fn Listener) func() {
	if fn == nil {
		return func() {}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextID++
	id := c.nextID
	c.listeners = append(c.listeners, subscription{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			for i, sub := range c.listeners {
				if sub.id == id {
					c.listeners = append(c.listeners[:i], c.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

// broadcast llama a los listeners fuera del lock para que puedan leer la sesion.
func (c *Context) broadcast(s domain.Session) {
	c.mu.Lock()
	subs := make([]subscription, len(c.listeners))
	copy(subs, c.listeners)
	c.mu.Unlock()

	for _, sub := range subs {
		sub.fn(s)
	}
}
