package ports

// ProjectLocator finds the configuration file of an existing project.
type ProjectLocator interface {
	FindConfig(path string) (string, error)
}
