package metrics

// TransferSuccessRate estimates how well the learner transfers skill to the
// task at hand. The default is a proxy built from error and hint counts; a
// real transfer-task design should replace it, which is why it is a package
// variable rather than a function.
var TransferSuccessRate = func(errorCount, hintCount int) float64 {
	errorComponent := clamp01(1 - float64(errorCount)/3)
	hintComponent := clamp01(1 - float64(hintCount)/5)
	return (errorComponent + hintComponent) / 2
}
