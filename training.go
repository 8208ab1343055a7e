package tensorhub

import (
	"errors"
	"fmt"

	"github.com/unixpickle/anynet"
	"github.com/unixpickle/anynet/anys2v"
	"github.com/unixpickle/anynet/anysgd"
	"github.com/unixpickle/essentials"
)

// Training defaults, matching the workflow this package
// was built around.
const (
	DefaultBatchSize    = 32
	DefaultLearningRate = 0.001
)

// A TrainConfig controls a training run.
type TrainConfig struct {
	// Epochs is the fixed number of epochs to run.
	Epochs int

	// BatchSize is the mini-batch size.
	// If it is 0, DefaultBatchSize is used.
	BatchSize int

	// Rater determines the learning rate for each step.
	// If it is nil, a constant DefaultLearningRate is
	// used.
	Rater anysgd.Rater

	// Transformer pre-conditions gradients before each
	// step. If it is nil, RMSProp is used.
	Transformer anysgd.Transformer

	// Done, if non-nil, stops the run between batches
	// when it is closed.
	Done <-chan struct{}
}

// EpochStats reports the metrics accumulated over one
// epoch.
type EpochStats struct {
	Epoch int

	TrainLoss     float64
	TrainAccuracy float64
	TestLoss      float64
	TestAccuracy  float64
}

// String formats the stats as one progress line.
func (e EpochStats) String() string {
	return fmt.Sprintf("Epoch %d, Loss: %.4f, Accuracy: %.2f%%, Test Loss: %.4f, Test Accuracy: %.2f%%",
		e.Epoch, e.TrainLoss, e.TrainAccuracy*100, e.TestLoss, e.TestAccuracy*100)
}

// Train runs a fixed number of epochs over the training
// samples, validating against the test samples after
// each epoch.
//
// Parameters are only mutated during training passes;
// validation is read-only. Any error while fetching or
// evaluating a batch aborts the run. If conf.Done is
// closed, Train returns early with no error.
func Train(c *Classifier, train, test anys2v.SampleList, conf TrainConfig,
	status func(EpochStats)) error {
	if conf.Epochs < 1 {
		return errors.New("train: epoch count must be positive")
	}
	if train.Len() == 0 {
		return errors.New("train: no training samples")
	}
	batchSize := conf.BatchSize
	if batchSize == 0 {
		batchSize = DefaultBatchSize
	}
	rater := conf.Rater
	if rater == nil {
		rater = anysgd.ConstRater(DefaultLearningRate)
	}
	transformer := conf.Transformer
	if transformer == nil {
		transformer = &anysgd.RMSProp{}
	}

	trainer := &anys2v.Trainer{
		Func:    c.Apply,
		Cost:    anynet.DotCost{},
		Params:  c.Parameters(),
		Average: true,
	}
	creator := c.Creator()

	var numProcessed int
	for epoch := 1; epoch <= conf.Epochs; epoch++ {
		anysgd.Shuffle(train)

		var trainLoss, trainAcc meanTracker
		for idx := 0; idx < train.Len(); idx += batchSize {
			if done(conf.Done) {
				return nil
			}
			end := idx + batchSize
			if end > train.Len() {
				end = train.Len()
			}
			batch, err := trainer.Fetch(train.Slice(idx, end))
			if err != nil {
				return essentials.AddCtx("train", err)
			}
			grad := trainer.Gradient(batch)
			grad = transformer.Transform(grad)

			rate := rater.Rate(float64(numProcessed) / float64(train.Len()))
			grad.Scale(creator.MakeNumeric(-rate))
			grad.AddToVars()
			numProcessed += end - idx

			correct, total := batchAccuracy(c, batch.(*anys2v.Batch))
			trainLoss.Add(numericValue(trainer.LastCost), total)
			trainAcc.Add(float64(correct)/float64(total), total)
		}

		var testLoss, testAcc meanTracker
		for idx := 0; idx < test.Len(); idx += batchSize {
			if done(conf.Done) {
				return nil
			}
			end := idx + batchSize
			if end > test.Len() {
				end = test.Len()
			}
			batch, err := trainer.Fetch(test.Slice(idx, end))
			if err != nil {
				return essentials.AddCtx("validate", err)
			}
			cost := vectorData(trainer.TotalCost(batch).Output())
			correct, total := batchAccuracy(c, batch.(*anys2v.Batch))
			testLoss.Add(cost[0], total)
			testAcc.Add(float64(correct)/float64(total), total)
		}

		if status != nil {
			status(EpochStats{
				Epoch:         epoch,
				TrainLoss:     trainLoss.Mean(),
				TrainAccuracy: trainAcc.Mean(),
				TestLoss:      testLoss.Mean(),
				TestAccuracy:  testAcc.Mean(),
			})
		}
	}
	return nil
}

// batchAccuracy counts the correctly classified samples
// in a fetched batch using argmax semantics.
func batchAccuracy(c *Classifier, b *anys2v.Batch) (correct, total int) {
	actual := vectorData(c.Apply(b.Inputs).Output())
	desired := vectorData(b.Outputs.Output())
	total = len(actual) / c.NumClasses
	for i := 0; i < total; i++ {
		row := actual[i*c.NumClasses : (i+1)*c.NumClasses]
		want := desired[i*c.NumClasses : (i+1)*c.NumClasses]
		if argmax(row) == argmax(want) {
			correct++
		}
	}
	return
}

// A meanTracker accumulates a running weighted mean.
type meanTracker struct {
	sum    float64
	weight int
}

func (m *meanTracker) Add(value float64, weight int) {
	m.sum += value * float64(weight)
	m.weight += weight
}

func (m *meanTracker) Mean() float64 {
	if m.weight == 0 {
		return 0
	}
	return m.sum / float64(m.weight)
}

func done(ch <-chan struct{}) bool {
	if ch == nil {
		return false
	}
	select {
	case <-ch:
		return true
	default:
		return false
	}
}
