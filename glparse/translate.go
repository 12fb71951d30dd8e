package glparse

import (
	"errors"
	"fmt"

	"github.com/soypat/glnode"
	"github.com/soypat/glnode/glbuild"
)

// Target is a socket whose expression is emitted to a stage.
type Target struct {
	Stage glbuild.Stage
	// Socket is the input or output socket to translate. Input sockets
	// translate to the expression of their producer or their default literal.
	Socket *glnode.Socket
	// Assign is the left hand side the expression is assigned to, such as
	// "vec3 disp". If empty the expression is only returned.
	Assign string
}

// Translate resolves each target in the stage it names and returns the
// resulting expressions in order. Targets are translated in order so statements
// emitted by earlier targets are visible to later ones. The fragment stage is
// active after Translate returns.
func (st *State) Translate(targets ...Target) ([]string, error) {
	defer func() { st.cur = st.frag }()
	exprs := make([]string, len(targets))
	for i, t := range targets {
		expr, err := st.translate(t)
		if err != nil {
			return exprs[:i], fmt.Errorf("target %d (%s): %w", i, t.Socket, err)
		}
		exprs[i] = expr
	}
	return exprs, nil
}

func (st *State) translate(t Target) (expr string, err error) {
	if t.Socket == nil {
		return "", fmt.Errorf("%w: nil target socket", ErrMissingSocket)
	}
	err = st.SetStage(t.Stage)
	if err != nil {
		return "", err
	}
	switch {
	case t.Socket.IsOutput():
		expr, err = st.Parse(t.Socket.Node(), t.Socket.Index())
	case t.Socket.IsLinked():
		from := t.Socket.Link().From
		expr, err = st.Parse(from.Node(), from.Index())
	default:
		expr = Literal(t.Socket)
	}
	if err != nil {
		return "", err
	}
	if t.Assign == "" {
		return expr, nil
	} else if expr == "" {
		return "", fmt.Errorf("%w: cannot assign to %s", ErrNoExpression, t.Assign)
	}
	st.Write(t.Assign + " = " + expr + ";")
	return expr, nil
}

// Translate creates a State from cfg and translates targets with it.
func Translate(cfg Config, targets ...Target) (*State, []string, error) {
	if len(targets) == 0 {
		return nil, nil, errors.New("no translation targets")
	}
	st := NewState(cfg)
	exprs, err := st.Translate(targets...)
	if err != nil {
		return nil, nil, err
	}
	return st, exprs, nil
}
