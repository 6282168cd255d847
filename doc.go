// Package dtlink trains and evaluates link-prediction models over
// discrete-time dynamic graphs (DTDGs): temporal edge streams bucketed
// into ordered snapshots, encoded by recurrent graph convolutions, and
// scored edge-by-edge against historical negative candidates.
//
// What is dtlink?
//
//	A self-contained toolkit that brings together:
//		• Snapshot primitives: time-indexed edge sets with message/eval views
//		• Dataset plumbing: CSV edge streams, time-scale bucketing, splits
//		• Recurrent encoders: EvolveGCN-O and GC-LSTM on dense matrices
//		• An MLP link decoder over endpoint embeddings
//		• Ranking evaluation: historical negatives + MRR / hits@K
//		• A training orchestrator: shifted-feed epochs, one optimizer step
//		  per unrolled sequence, best-val tracking and patience
//
// Under the hood, everything is organized under flat subpackages:
//
//	dtgraph/ — Snapshot, Sequence and edge primitives
//	dataset/ — loaders, time discretization, synthetic generators
//	tensor/  — reverse-mode autodiff over gonum dense matrices
//	gcn/     — encoders, decoder, losses, Adam
//	negsamp/ — uniform and precomputed historical negative sampling
//	evalkit/ — MRR and hits@K over one positive vs. many negatives
//	trainer/ — run configuration, epoch loops, early-stop bookkeeping
//
// The snapshot order is causal: the embedding used to score snapshot t
// during training is always produced from snapshot t-1's edges, so the
// model never sees a snapshot's own edges before predicting them.
//
//	go get github.com/vantorre/dtlink
package dtlink
