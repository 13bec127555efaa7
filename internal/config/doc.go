// Package config provides configuration loading for the launch dashboard.
//
// # Configuration Sources
//
// Configuration is assembled from the following layers, later layers
// overriding earlier ones:
//
//	1. Default values (Default)
//	2. A YAML file: $LAUNCHDASH_CONFIG, ./launchdash.yaml or ./configs/launchdash.yaml
//	3. Environment variables
//
// # Environment Variables
//
// Every variable is prefixed with LAUNCHDASH_ and follows the struct nesting:
//
//	LAUNCHDASH_SERVER_PORT=4546
//	LAUNCHDASH_DATASET_SOURCE=s3://launch-data/spacex_launch_dash.csv
//	LAUNCHDASH_DATASET_S3_REGION=eu-west-1
//	LAUNCHDASH_LOGGING_LEVEL=debug
//	LAUNCHDASH_DASHBOARD_SLIDER_STEP=500
//
// Load validates the merged result and returns an error describing every
// invalid field at once.
package config
