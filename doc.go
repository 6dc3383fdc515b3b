// Package cropml recommends a crop to plant from four environmental
// measurements: air humidity, air temperature, soil pH and rainfall.
//
// The library is organized as a small scikit-learn-style pipeline:
//
//   - dataset: sample model and tabular sources (CSV)
//   - preprocessing: LabelEncoder and StandardScaler, fit once on the
//     training partition and read-only afterwards
//   - modelselection: seeded, reproducible train/test splitting
//   - tree: CART-style DecisionTreeClassifier with Gini or entropy impurity
//   - metrics: confusion matrix, per-class precision/recall/F1, accuracy,
//     macro and weighted averages
//   - input: bounded-retry interactive measurement collection
//   - remote: the key-value store boundary used to gate and publish
//     predictions
//   - service: the end-to-end single-prediction flow
//
// # Quick Start
//
//	ds, _ := dataset.NewCSVSource("samples.csv").Load()
//	enc := preprocessing.NewLabelEncoder()
//	y, _ := enc.FitTransform(ds.Labels)
//
//	split, _ := modelselection.TrainTestSplit(ds.X, y,
//	    modelselection.WithTestSize(0.3), modelselection.WithSeed(42))
//
//	scaler := preprocessing.NewStandardScaler()
//	XTrain, _ := scaler.FitTransform(split.XTrain)
//	XTest, _ := scaler.Transform(split.XTest)
//
//	clf := tree.NewDecisionTreeClassifier(tree.WithCriterion("gini"))
//	_ = clf.Fit(XTrain, yColumn(split.YTrain))
//
//	report, _ := metrics.Evaluate(clf, XTest, split.YTest, enc.Classes)
//	fmt.Print(report)
//
// The cmd/cropml binary wires the full pipeline, including the interactive
// prediction stage against a remote store.
package cropml
