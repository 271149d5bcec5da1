package users

import (
	"fmt"
	"io"
)

// Reader reads users.
type Reader interface {
	Read(id string) string
}

//autoinject:singleton as=Reader,fmt.Stringer
type Service struct{}

func NewService() (*Service, error) { return &Service{}, nil }

func (s *Service) Read(id string) string { return id }
func (s *Service) String() string        { return "service" }

// Handler serves user requests.
//
//autoinject:scoped as=io.Closer ctor=OpenHandler
type Handler struct {
	svc *Service
}

func OpenHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) Close() error { return nil }

//autoinject:transient value
type Options map[string]string

// NewOptions does not build Options and is ignored.
func NewOptions() map[string]string { return nil }

type row struct{}

var (
	_ io.Closer    = (*Handler)(nil)
	_ fmt.Stringer = (*Service)(nil)
	_              = row{}
)
