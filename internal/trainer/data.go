package trainer

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/zx0502/minpy/internal/tensor"
)

// Dataset holds samples and their class labels.
type Dataset struct {
	X      [][]float64 // [num_samples, num_features]
	Labels []int       // [num_samples]
}

// NumSamples returns the number of samples.
func (d *Dataset) NumSamples() int {
	return len(d.Labels)
}

// NumFeatures returns the number of features per sample.
func (d *Dataset) NumFeatures() int {
	if len(d.X) == 0 {
		return 0
	}
	return len(d.X[0])
}

// NumClasses returns one more than the largest label.
func (d *Dataset) NumClasses() int {
	n := 0
	for _, y := range d.Labels {
		n = max(n, y+1)
	}
	return n
}

// Split shuffles the dataset with seed and divides it into training and
// validation sets.
//
// Example:
//
//	train, val := data.Split(0.2, 1) // 80% train, 20% validation
func (d *Dataset) Split(validationRatio float64, seed uint64) (train, val *Dataset) {
	perm := rand.New(rand.NewPCG(seed, seed+1)).Perm(d.NumSamples())
	numVal := int(float64(d.NumSamples()) * validationRatio)

	pick := func(idx []int) *Dataset {
		out := &Dataset{X: make([][]float64, len(idx)), Labels: make([]int, len(idx))}
		for i, j := range idx {
			out.X[i] = d.X[j]
			out.Labels[i] = d.Labels[j]
		}
		return out
	}
	return pick(perm[numVal:]), pick(perm[:numVal])
}

// Batch is one mini-batch ready to feed into a network.
type Batch struct {
	X      *tensor.Array // [batch_size, num_features]
	Labels []int         // [batch_size]
}

// Batches splits the dataset into mini-batches, shuffling the order with
// seed when shuffle is set. The last batch may be smaller.
func (d *Dataset) Batches(batchSize int, shuffle bool, seed uint64) ([]Batch, error) {
	if batchSize <= 0 {
		return nil, fmt.Errorf("batch size must be positive, got %d", batchSize)
	}
	n, f := d.NumSamples(), d.NumFeatures()

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	if shuffle {
		rng := rand.New(rand.NewPCG(seed, seed+1))
		rng.Shuffle(n, func(i, j int) { order[i], order[j] = order[j], order[i] })
	}

	batches := make([]Batch, 0, (n+batchSize-1)/batchSize)
	for start := 0; start < n; start += batchSize {
		end := min(start+batchSize, n)
		data := make([]float64, 0, (end-start)*f)
		labels := make([]int, 0, end-start)
		for _, j := range order[start:end] {
			data = append(data, d.X[j]...)
			labels = append(labels, d.Labels[j])
		}
		x, err := tensor.New(data, tensor.Shape{end - start, f})
		if err != nil {
			return nil, fmt.Errorf("batch at %d: %w", start, err)
		}
		batches = append(batches, Batch{X: x, Labels: labels})
	}
	return batches, nil
}

// Full returns the whole dataset as a single unshuffled batch.
func (d *Dataset) Full() (Batch, error) {
	batches, err := d.Batches(max(d.NumSamples(), 1), false, 0)
	if err != nil {
		return Batch{}, err
	}
	if len(batches) == 0 {
		return Batch{}, fmt.Errorf("dataset is empty")
	}
	return batches[0], nil
}

// Spiral generates the classic interleaved-spirals classification problem:
// numClasses arms of perClass points each in the plane, with Gaussian noise
// on the angle.
func Spiral(perClass, numClasses int, noise float64, seed uint64) *Dataset {
	jitter := distuv.Normal{Mu: 0, Sigma: noise, Src: rand.New(rand.NewPCG(seed, seed+1))}

	d := &Dataset{}
	for c := range numClasses {
		for i := range perClass {
			r := float64(i) / float64(perClass)
			theta := float64(c)*2*math.Pi/float64(numClasses) + 4*r + jitter.Rand()
			d.X = append(d.X, []float64{r * math.Sin(theta), r * math.Cos(theta)})
			d.Labels = append(d.Labels, c)
		}
	}
	return d
}

// Blobs generates numClasses Gaussian clusters with centers spread on a
// circle of the given radius.
func Blobs(perClass, numClasses int, radius, sigma float64, seed uint64) *Dataset {
	noise := distuv.Normal{Mu: 0, Sigma: sigma, Src: rand.New(rand.NewPCG(seed, seed+1))}

	d := &Dataset{}
	for c := range numClasses {
		angle := float64(c) * 2 * math.Pi / float64(numClasses)
		cx, cy := radius*math.Cos(angle), radius*math.Sin(angle)
		for range perClass {
			d.X = append(d.X, []float64{cx + noise.Rand(), cy + noise.Rand()})
			d.Labels = append(d.Labels, c)
		}
	}
	return d
}
