package config

// NewNotebooksForTest creates a Notebooks config for testing purposes
func NewNotebooksForTest(path string) *Notebooks {
	return &Notebooks{path: path}
}

// NewLLMForTest creates an LLM config for testing purposes
func NewLLMForTest(provider string) *LLM {
	return &LLM{provider: provider}
}
