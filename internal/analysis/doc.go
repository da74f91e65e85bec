// Package analysis inspects recorded runs: phase portraits of theta against
// theta_dot, settling time and overshoot.
package analysis
