// Package gcn implements the recurrent graph-convolutional encoders
// and the MLP link decoder used for discrete-time link prediction,
// together with Glorot initialization and an Adam optimizer.
//
// Two encoder variants are provided, mirroring the EvolveGCN-O and
// GC-LSTM families:
//
//   - EvolveGCNO evolves the GCN weight matrix itself through a
//     matrix LSTM cell (the weight is the recurrent hidden state) and
//     applies a single normalized graph convolution plus a linear head.
//   - GCLSTM is a graph-convolutional LSTM cell: gate pre-activations
//     mix a node-feature term with a K=1 Chebyshev (normalized
//     adjacency) convolution of the carried hidden state.
//
// Both encoders are stateful: Reset restores the recurrent state to
// its learned initial value at the start of an epoch, Step consumes
// one snapshot's message edges and returns per-node embeddings, and
// Detach severs the carried state from the autodiff tape before
// evaluation-only snapshots.
//
// The decoder scores a node pair from the Hadamard product of its
// endpoint embeddings through a small MLP with a sigmoid output.
//
// Errors:
//
//	ErrBadDimension - non-positive layer size or node count.
//	ErrNilRand      - constructor called without a random source.
package gcn
