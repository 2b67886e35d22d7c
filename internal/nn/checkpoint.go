package nn

import (
	"fmt"
	"strconv"

	"github.com/zx0502/minpy/internal/serialization"
)

const twoLayerNetKind = "TwoLayerNet"

// StateDict returns the parameters keyed by name. The arrays are shared
// with the network.
func (n *TwoLayerNet) StateDict() serialization.StateDict {
	state := make(serialization.StateDict, 4)
	for _, p := range n.Params() {
		state[p.Name()] = p.Value()
	}
	return state
}

// LoadStateDict copies the arrays of state into the parameters of the same
// name. Every parameter must be present with a matching shape.
func (n *TwoLayerNet) LoadStateDict(state serialization.StateDict) error {
	for _, p := range n.Params() {
		src, ok := state[p.Name()]
		if !ok {
			return fmt.Errorf("%w: missing parameter %q", ErrStateDict, p.Name())
		}
		if !src.Shape().Equal(p.Value().Shape()) {
			return fmt.Errorf("%w: parameter %q has shape %v, want %v",
				ErrStateDict, p.Name(), src.Shape(), p.Value().Shape())
		}
	}
	for _, p := range n.Params() {
		copy(p.Value().Data(), state[p.Name()].Data())
	}
	return nil
}

// Save writes the network to path. meta may be nil.
func (n *TwoLayerNet) Save(path string, meta *serialization.CheckpointMeta) error {
	header := serialization.Header{
		Kind: twoLayerNetKind,
		Metadata: map[string]string{
			"input_dim":   strconv.Itoa(n.cfg.InputDim),
			"hidden_dim":  strconv.Itoa(n.cfg.HiddenDim),
			"num_classes": strconv.Itoa(n.cfg.NumClasses),
		},
		Checkpoint: meta,
	}
	return serialization.Save(path, n.StateDict(), header)
}

// LoadTwoLayerNet reads a network written by Save.
func LoadTwoLayerNet(path string) (*TwoLayerNet, *serialization.CheckpointMeta, error) {
	state, header, err := serialization.Load(path)
	if err != nil {
		return nil, nil, err
	}
	if header.Kind != twoLayerNetKind {
		return nil, nil, fmt.Errorf("%w: file holds a %q", ErrStateDict, header.Kind)
	}

	var cfg TwoLayerNetConfig
	for key, dst := range map[string]*int{
		"input_dim":   &cfg.InputDim,
		"hidden_dim":  &cfg.HiddenDim,
		"num_classes": &cfg.NumClasses,
	} {
		v, err := strconv.Atoi(header.Metadata[key])
		if err != nil {
			return nil, nil, fmt.Errorf("%w: metadata %s: %w", ErrStateDict, key, err)
		}
		*dst = v
	}

	net, err := NewTwoLayerNet(cfg)
	if err != nil {
		return nil, nil, err
	}
	if err := net.LoadStateDict(state); err != nil {
		return nil, nil, err
	}
	return net, header.Checkpoint, nil
}
