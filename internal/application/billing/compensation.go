package billing

import (
	"context"

	"github.com/rs/zerolog"
)

// compensation deshace un paso ya persistido de una operación compuesta.
type compensation struct {
	name string
	fn   func(ctx context.Context) error
}

// saga tabla de compensaciones: se ejecutan en orden inverso al registrado.
// El store no ofrece transacciones de varias sentencias, así que cada escritura
// que deba deshacerse si un paso posterior aborta registra aquí su inverso.
type saga struct {
	steps []compensation
	log   zerolog.Logger
}

func newSaga(log zerolog.Logger) *saga {
	return &saga{log: log}
}

func (s *saga) push(name string, fn func(ctx context.Context) error) {
	s.steps = append(s.steps, compensation{name: name, fn: fn})
}

// rollback ejecuta todas las compensaciones aunque alguna falle; las fallas se registran.
// Usa un contexto no cancelable para que un request abortado igual compense.
func (s *saga) rollback(ctx context.Context) {
	ctx = context.WithoutCancel(ctx)
	for i := len(s.steps) - 1; i >= 0; i-- {
		step := s.steps[i]
		if err := step.fn(ctx); err != nil {
			s.log.Error().Err(err).Str("step", step.name).Msg("compensación fallida")
		}
	}
	s.steps = nil
}
