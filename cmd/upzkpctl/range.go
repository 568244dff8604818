// Copyright 2016 Maarten Everts. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"math/big"

	"github.com/spf13/cobra"

	"github.com/privacybydesign/upzkp/algebra"
	"github.com/privacybydesign/upzkp/dlrep"
	"github.com/privacybydesign/upzkp/params"
	"github.com/privacybydesign/upzkp/rangeproof"
)

func newRangeCmd() *cobra.Command {
	var value, minV, maxV int64

	cmd := &cobra.Command{
		Use:   "range",
		Short: "Prove a committed value lies in [min, max] without revealing it",
		RunE: func(cmd *cobra.Command, args []string) error {
			cp, err := buildParams(1)
			if err != nil {
				return err
			}
			field := cp.Field()
			x := field.FromDigest(big.NewInt(value).Bytes())

			commitment, err := dlrep.CommitValue(cp.Group, cp.G0(), cp.G1(), x, secureRand)
			if err != nil {
				return err
			}
			proof, err := rangeproof.ProveAgainstConstant(cp, commitment, 0, minV, maxV, params.DefaultMaxRangeBits, rangeproof.GreaterOrEqual, secureRand)
			if err != nil {
				return err
			}
			stmt, err := commitment.ClosedStatement()
			if err != nil {
				return err
			}
			// bValue is the closed (opening-0) commitment to the public
			// constant 0, matching what ProveAgainstConstant built internally.
			bValue, err := cp.Group.MultiExp([]algebra.Element{cp.G0(), cp.G1()}, []algebra.Scalar{field.Zero(), field.Zero()})
			if err != nil {
				return err
			}
			err = rangeproof.Verify(cp, stmt.Value, bValue, minV, maxV, rangeproof.GreaterOrEqual, proof)
			okOrFail(cmd, "range proof", err)
			return nil
		},
	}
	cmd.Flags().Int64Var(&value, "value", 25, "committed attribute value")
	cmd.Flags().Int64Var(&minV, "min", 0, "inclusive lower bound (must cover 0, the comparison constant)")
	cmd.Flags().Int64Var(&maxV, "max", 150, "inclusive upper bound")
	return cmd
}
