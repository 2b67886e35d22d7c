// Package trainer runs mini-batch training of a TwoLayerNet on an in-memory
// dataset. It is shared by the example program and the CLI.
package trainer

import (
	"errors"
	"fmt"
	"time"

	"github.com/zx0502/minpy/internal/autodiff"
	"github.com/zx0502/minpy/internal/nn"
	"github.com/zx0502/minpy/internal/optim"
)

// Common errors.
var (
	ErrUnknownOptimizer = errors.New("unknown optimizer")
	ErrEmptyDataset     = errors.New("training set is empty")
)

// Config holds the training hyperparameters.
type Config struct {
	Epochs    int     // Passes over the training set (default: 10)
	BatchSize int     // Samples per step (default: 32)
	Optimizer string  // "sgd" or "adam" (default: "sgd")
	LR        float64 // Learning rate (default: optimizer's own default)
	Momentum  float64 // SGD momentum
	LRDecay   float64 // Multiplies the SGD learning rate after every epoch (default: 1)
	Seed      uint64  // Seed for batch shuffling
}

func (c *Config) setDefaults() {
	if c.Epochs == 0 {
		c.Epochs = 10
	}
	if c.BatchSize == 0 {
		c.BatchSize = 32
	}
	if c.Optimizer == "" {
		c.Optimizer = "sgd"
	}
	if c.LRDecay == 0 {
		c.LRDecay = 1
	}
}

// EpochStats summarizes one epoch.
type EpochStats struct {
	Epoch    int
	Loss     float64 // Mean training loss over the epoch's batches
	TrainAcc float64
	ValAcc   float64
	LR       float64
	Duration time.Duration
}

// Trainer fits a network with the gradients computed by autodiff.GradAndLoss.
type Trainer struct {
	cfg       Config
	net       *nn.TwoLayerNet
	optimizer optim.Optimizer
	step      autodiff.GradAndLossFunc

	// OnEpoch, when set, is called after every epoch.
	OnEpoch func(EpochStats)
}

// New creates a trainer for net.
func New(net *nn.TwoLayerNet, cfg Config) (*Trainer, error) {
	cfg.setDefaults()

	var o optim.Optimizer
	switch cfg.Optimizer {
	case "sgd":
		o = optim.NewSGD(net.Params(), optim.SGDConfig{LR: cfg.LR, Momentum: cfg.Momentum})
	case "adam":
		o = optim.NewAdam(net.Params(), optim.AdamConfig{LR: cfg.LR})
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownOptimizer, cfg.Optimizer)
	}

	return &Trainer{
		cfg:       cfg,
		net:       net,
		optimizer: o,
		step:      autodiff.GradAndLoss(net.Loss, autodiff.WithArgnums(nn.ParamArgnums...)),
	}, nil
}

// Step runs one forward/backward pass on a batch and updates the parameters.
// It returns the batch loss before the update.
func (t *Trainer) Step(b Batch) (float64, error) {
	grads, loss, err := t.step(t.net.Args(b.X, b.Labels)...)
	if err != nil {
		return 0, err
	}
	if err := t.optimizer.Step(grads); err != nil {
		return 0, err
	}
	return autodiff.Concrete(loss).Item(), nil
}

// Fit trains on train for the configured number of epochs, evaluating
// accuracy on train and val after each one. val may be nil.
func (t *Trainer) Fit(train, val *Dataset) ([]EpochStats, error) {
	if train == nil || train.NumSamples() == 0 {
		return nil, ErrEmptyDataset
	}
	history := make([]EpochStats, 0, t.cfg.Epochs)

	for epoch := range t.cfg.Epochs {
		start := time.Now()

		batches, err := train.Batches(t.cfg.BatchSize, true, t.cfg.Seed+uint64(epoch))
		if err != nil {
			return history, err
		}

		var total float64
		for i, b := range batches {
			loss, err := t.Step(b)
			if err != nil {
				return history, fmt.Errorf("epoch %d batch %d: %w", epoch+1, i, err)
			}
			total += loss
		}

		stats := EpochStats{
			Epoch:    epoch + 1,
			Loss:     total / float64(len(batches)),
			TrainAcc: t.Evaluate(train),
			LR:       t.optimizer.GetLR(),
			Duration: time.Since(start),
		}
		if val != nil && val.NumSamples() > 0 {
			stats.ValAcc = t.Evaluate(val)
		}
		history = append(history, stats)
		if t.OnEpoch != nil {
			t.OnEpoch(stats)
		}

		if sgd, ok := t.optimizer.(*optim.SGD); ok && t.cfg.LRDecay != 1 {
			sgd.SetLR(sgd.GetLR() * t.cfg.LRDecay)
		}
	}
	return history, nil
}

// Evaluate returns the classification accuracy of the network on d.
func (t *Trainer) Evaluate(d *Dataset) float64 {
	all, err := d.Full()
	if err != nil {
		return 0
	}
	return t.net.Accuracy(all.X, all.Labels)
}
