// Package trainer drives training and evaluation of dynamic-graph
// link-prediction models over snapshot sequences.
//
// One run is: per epoch, a training pass over the train split with the
// feed shifted one snapshot back (snapshot 0 encodes itself, snapshot
// t>0 encodes t-1's edges before its own positives are scored), a
// single optimizer step over the loss accumulated across the whole
// sequence, a validation pass, and a test pass only when validation
// strictly improves the best seen so far.
//
// Evaluation threads the embedding state linearly: the state is
// detached before first use, each positive edge is ranked against its
// precomputed negative candidates, and the encoder advances on the
// snapshot's own edges after its positives are scored.
//
// Early stopping has two modes. PatienceLegacy reproduces the
// reference bookkeeping, where the best epoch is reset on every
// improvement; under monotonic epoch increments the patience threshold
// is never reached, so runs end only at the epoch limit. Run logs a
// warning when this mode is active. PatienceStrict stops after the
// configured number of non-improving epochs.
//
// The trainer consumes its collaborators through the Encoder, Decoder
// and EvalSampler interfaces; gcn and negsamp provide the concrete
// implementations.
package trainer
