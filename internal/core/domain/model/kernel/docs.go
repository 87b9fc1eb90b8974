// Package kernel holds the value objects shared by every aggregate of the
// marketplace: identifiers, money, geographic points and addresses.
//
// All of them are immutable, validated on construction and unusable as zero
// values. Call Validate on a value received from outside the package before
// relying on it.
package kernel
