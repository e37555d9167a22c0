package domain

// Classifier predicts a category label from a todo title. Implementations
// are loaded once at process start and must be safe for concurrent use;
// they hold no mutable state after loading.
type Classifier interface {
	PredictClass(title string) (string, error)
}
