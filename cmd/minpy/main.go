// Package main provides the minpy CLI.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/zx0502/minpy/autograd"
	"github.com/zx0502/minpy/internal/logger"
	"github.com/zx0502/minpy/internal/nn"
	"github.com/zx0502/minpy/internal/serialization"
	"github.com/zx0502/minpy/internal/trainer"
	"github.com/zx0502/minpy/numpy"
)

const version = "v0.1.0"

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "minpy:", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	if len(args) == 0 {
		usage(out)
		return nil
	}

	switch args[0] {
	case "version":
		fmt.Fprintf(out, "minpy %s\n", version)
		return nil
	case "primitives":
		for _, name := range autograd.Primitives() {
			fmt.Fprintln(out, name)
		}
		return nil
	case "grad":
		return runGrad(args[1:], out)
	case "train":
		return runTrain(args[1:])
	case "eval":
		return runEval(args[1:], out)
	case "help", "-h", "--help":
		usage(out)
		return nil
	default:
		usage(out)
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func usage(out io.Writer) {
	fmt.Fprintf(out, "minpy %s - reverse-mode autograd over arrays\n\n", version)
	fmt.Fprintln(out, "Commands:")
	fmt.Fprintln(out, "  version      Show version")
	fmt.Fprintln(out, "  primitives   List registered primitives")
	fmt.Fprintln(out, "  grad         Differentiate a built-in function at a point")
	fmt.Fprintln(out, "  train        Train a two-layer net on synthetic spirals")
	fmt.Fprintln(out, "  eval         Evaluate a saved net on fresh spirals")
}

// demos are the functions the grad command can differentiate.
var demos = map[string]autograd.Func{
	"square": func(args ...autograd.Value) (autograd.Value, error) {
		return numpy.Power(args[0], numpy.Scalar(2)), nil
	},
	"cube": func(args ...autograd.Value) (autograd.Value, error) {
		return numpy.Power(args[0], numpy.Scalar(3)), nil
	},
	"tanh": func(args ...autograd.Value) (autograd.Value, error) {
		return numpy.Tanh(args[0]), nil
	},
	"sigmoid": func(args ...autograd.Value) (autograd.Value, error) {
		return nn.Sigmoid(args[0]), nil
	},
	"logsumexp": func(args ...autograd.Value) (autograd.Value, error) {
		return numpy.Log(numpy.Sum(numpy.Exp(args[0]))), nil
	},
}

func demoNames() []string {
	return slices.Sorted(maps.Keys(demos))
}

func runGrad(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("grad", flag.ContinueOnError)
	fs.SetOutput(out)
	fn := fs.String("fn", "square", "Function to differentiate")
	at := fs.String("x", "4", "Comma-separated point, e.g. 1,2,3")
	order := fs.Int("order", 1, "Derivative order")
	if err := fs.Parse(args); err != nil {
		return err
	}

	f, ok := demos[*fn]
	if !ok {
		return fmt.Errorf("unknown function %q (have %s)", *fn, strings.Join(demoNames(), ", "))
	}
	if *order < 1 {
		return errors.New("order must be at least 1")
	}
	x, err := parsePoint(*at)
	if err != nil {
		return err
	}

	for range *order {
		f = autograd.Grad(f)
	}
	g, err := f(x)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, autograd.Concrete(g))
	return nil
}

func parsePoint(s string) (*numpy.Array, error) {
	fields := strings.Split(s, ",")
	values := make([]float64, len(fields))
	for i, field := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return nil, fmt.Errorf("parse point: %w", err)
		}
		values[i] = v
	}
	if len(values) == 1 {
		return numpy.Scalar(values[0]), nil
	}
	return numpy.Vector(values...), nil
}

func runTrain(args []string) error {
	fs := flag.NewFlagSet("train", flag.ContinueOnError)
	perClass := fs.Int("samples", 100, "Samples per class")
	classes := fs.Int("classes", 3, "Number of classes")
	hidden := fs.Int("hidden", 100, "Hidden layer width")
	epochs := fs.Int("epochs", 100, "Number of training epochs")
	batchSize := fs.Int("batch", 64, "Batch size")
	optimizer := fs.String("optim", "adam", "Optimizer: sgd or adam")
	lr := fs.Float64("lr", 0.01, "Learning rate")
	momentum := fs.Float64("momentum", 0.9, "SGD momentum")
	decay := fs.Float64("lr-decay", 1, "SGD learning rate decay per epoch")
	seed := fs.Uint64("seed", 0, "Random seed")
	level := fs.String("log-level", "info", "Log level: debug, info, warn, error")
	format := fs.String("log-format", "text", "Log format: text or json")
	save := fs.String("save", "", "Write the trained net to this path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	lvl, err := logger.ParseLevel(*level)
	if err != nil {
		return err
	}
	logger.New(logger.Config{Level: lvl, Format: *format, Output: os.Stderr})
	log := logger.ForComponent("train")

	data := trainer.Spiral(*perClass, *classes, 0.2, *seed)
	train, val := data.Split(0.2, *seed)

	net, err := nn.NewTwoLayerNet(nn.TwoLayerNetConfig{
		InputDim:   train.NumFeatures(),
		HiddenDim:  *hidden,
		NumClasses: *classes,
		Seed:       *seed,
	})
	if err != nil {
		return err
	}
	tr, err := trainer.New(net, trainer.Config{
		Epochs:    *epochs,
		BatchSize: *batchSize,
		Optimizer: *optimizer,
		LR:        *lr,
		Momentum:  *momentum,
		LRDecay:   *decay,
		Seed:      *seed,
	})
	if err != nil {
		return err
	}

	log.Info("training", "train", train.NumSamples(), "val", val.NumSamples(),
		"optimizer", *optimizer, "epochs", *epochs)
	tr.OnEpoch = func(s trainer.EpochStats) {
		log.Debug("epoch", "epoch", s.Epoch, "loss", s.Loss, "lr", s.LR)
		if s.Epoch%10 == 0 {
			log.Info("epoch", "epoch", s.Epoch, "loss", s.Loss,
				"train_acc", s.TrainAcc, "val_acc", s.ValAcc)
		}
	}

	history, err := tr.Fit(train, val)
	if err != nil {
		return err
	}
	if len(history) == 0 {
		return nil
	}
	last := history[len(history)-1]
	log.Info("done", slog.Float64("loss", last.Loss), slog.Float64("val_acc", last.ValAcc))

	if *save != "" {
		meta := &serialization.CheckpointMeta{
			Epoch:     last.Epoch,
			Loss:      last.Loss,
			ValAcc:    last.ValAcc,
			Optimizer: *optimizer,
			LR:        last.LR,
		}
		if err := net.Save(*save, meta); err != nil {
			return err
		}
		log.Info("saved", "path", *save)
	}
	return nil
}

func runEval(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("eval", flag.ContinueOnError)
	fs.SetOutput(out)
	path := fs.String("model", "", "Path of a net written by train -save")
	perClass := fs.Int("samples", 100, "Samples per class")
	seed := fs.Uint64("seed", 1, "Random seed of the evaluation set")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *path == "" {
		return errors.New("eval needs -model")
	}

	net, meta, err := nn.LoadTwoLayerNet(*path)
	if err != nil {
		return err
	}
	data := trainer.Spiral(*perClass, net.Config().NumClasses, 0.2, *seed)
	all, err := data.Full()
	if err != nil {
		return err
	}

	if meta != nil {
		fmt.Fprintf(out, "checkpoint: epoch %d, loss %.4f, optimizer %s\n", meta.Epoch, meta.Loss, meta.Optimizer)
	}
	fmt.Fprintf(out, "accuracy: %.4f on %d samples\n", net.Accuracy(all.X, all.Labels), data.NumSamples())
	return nil
}
