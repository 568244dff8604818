// Copyright 2016 Maarten Everts. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command upzkpctl is a small CLI driving the upzkp library end to end:
// it exercises the Pedersen commitment, set-membership, range, and
// revocation proof round trips entirely in memory, printing pass/fail
// for each step. It is an ambient demo surface, not part of the core
// library (spec §1 excludes the outer CLI/RPC surface from the core
// itself).
package main

import (
	"crypto/rand"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/privacybydesign/upzkp/internal/common"
	"github.com/privacybydesign/upzkp/params"
)

var (
	groupID string
	hashID  string
	seed    string
	verbose bool
)

func main() {
	root := &cobra.Command{
		Use:   "upzkpctl",
		Short: "Drive the upzkp zero-knowledge proof library end to end",
	}
	root.PersistentFlags().StringVar(&groupID, "group", "P-256", `group backend ("P-256" or "BN254-G1")`)
	root.PersistentFlags().StringVar(&hashID, "hash", "SHA-256", "Fiat-Shamir hash identifier")
	root.PersistentFlags().StringVar(&seed, "seed", "upzkpctl-demo", "generator derivation seed")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable trace logging")
	cobra.OnInitialize(func() {
		if verbose {
			common.Logger.SetLevel(logrus.TraceLevel)
		}
	})

	root.AddCommand(newPedersenCmd())
	root.AddCommand(newSetMembershipCmd())
	root.AddCommand(newRangeCmd())
	root.AddCommand(newRevocationCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// buildParams is the shared setup step every subcommand runs: resolve the
// group, derive a generator table for numAttributes attributes, and hand back the
// resulting CryptoParams (component C2).
func buildParams(numAttributes int) (*params.CryptoParams, error) {
	cfg, err := params.NewSystemConfig(groupID, hashID, numAttributes)
	if err != nil {
		return nil, err
	}
	return params.NewCryptoParams(cfg, seed)
}

func okOrFail(cmd *cobra.Command, label string, err error) {
	if err != nil {
		cmd.Printf("%s: FAIL (%v)\n", label, err)
		os.Exit(1)
	}
	cmd.Printf("%s: OK\n", label)
}

var secureRand = rand.Reader
