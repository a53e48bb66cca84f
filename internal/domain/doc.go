// Package domain contains the core model of the pacbio_qc launcher.
//
// The domain does not depend on YAML, cobra, or the filesystem. Infra adapters
// map into/from these types.
package domain
