package testdb

import "os"

// EnvTestDatabaseURL names the variable holding the integration database URL.
const EnvTestDatabaseURL = "LIBRARY_TEST_DB_URL"

// DatabaseURL returns the integration database URL, or "" when unset.
func DatabaseURL() string {
	return os.Getenv(EnvTestDatabaseURL)
}

// IsIntegrationTestEnvironment reports whether a test database is configured.
func IsIntegrationTestEnvironment() bool {
	return DatabaseURL() != ""
}

// isCIEnvironment returns true if running in any type of CI environment.
func isCIEnvironment() bool {
	for _, envVar := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"} {
		if os.Getenv(envVar) != "" {
			return true
		}
	}
	return false
}
