package types

// Comparison threshold for near-zero float checks.
const floatCmpEpsilon = 1e-12
