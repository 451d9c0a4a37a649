package config

// SampleConfig returns a fully commented configuration file.
func SampleConfig() string {
	return `# pitwall configuration file
version: "1.0"

backend:
  # Root URL of the dashboard backend API.
  base_url: "http://localhost:8000/api"
  # OpenF1 API key sent with season fetches. Leave empty for public data.
  api_key: ""
  # Per-request timeout for backend calls.
  timeout: 30s

dashboard:
  # Year preloaded into the historical season prompt.
  default_year: 2023
  # How long a successful upload status stays on screen.
  upload_status_ttl: 4s

watch:
  # File extensions picked up by "pitwall watch".
  extensions:
    - ".csv"
    - ".json"
  # Analyze each file right after it is uploaded.
  auto_analyze: false

output:
  # Color mode: auto, always, never.
  color_mode: "auto"
  # Verbose logging to stderr.
  verbose: false
`
}

// MinimalSampleConfig returns a compact configuration with only the
// settings most installs change.
func MinimalSampleConfig() string {
	return `version: "1.0"
backend:
  base_url: "http://localhost:8000/api"
  api_key: ""
dashboard:
  default_year: 2023
`
}
