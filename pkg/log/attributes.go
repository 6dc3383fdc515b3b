package log

// Standard attribute keys for pipeline logging. Using a fixed vocabulary
// keeps training and inference logs filterable across components.

// Model and operation context.
const (
	// ModelNameKey identifies the estimator type.
	// Examples: "DecisionTreeClassifier", "StandardScaler", "LabelEncoder"
	ModelNameKey = "model.name"

	// OperationKey specifies the operation being performed.
	// Standard values: "fit", "predict", "transform", "evaluate", "split"
	OperationKey = "ml.operation"

	// ComponentKey identifies the package performing the operation.
	// Examples: "tree", "preprocessing", "metrics", "service"
	ComponentKey = "ml.component"
)

// Data shape.
const (
	// SamplesKey is the number of samples (rows) being processed.
	SamplesKey = "data.samples"

	// FeaturesKey is the number of feature columns.
	FeaturesKey = "data.features"

	// ClassesKey is the number of distinct crop classes.
	ClassesKey = "data.classes"
)

// Evaluation results.
const (
	// AccuracyKey is the overall test accuracy.
	AccuracyKey = "metric.accuracy"

	// MacroF1Key is the unweighted mean F1 over classes.
	MacroF1Key = "metric.macro_f1"

	// DurationMsKey is the elapsed wall time of an operation.
	DurationMsKey = "duration_ms"
)
