// File: internal/concurrency/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Adaptive worker pool for compiled Jacobian/Hessian row evaluators.
// Combines three scheduling strategies (single-job, multi-job, static),
// per-job CPU-time measurement, and feedback-driven job reordering behind
// a lock-protected queue with condition-variable synchronization.
package concurrency
