// Copyright 2016 Maarten Everts. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"math/big"

	"github.com/spf13/cobra"

	"github.com/privacybydesign/upzkp/algebra"
	"github.com/privacybydesign/upzkp/dlrep"
	"github.com/privacybydesign/upzkp/setmembership"
)

func newSetMembershipCmd() *cobra.Command {
	var value int64
	var set []int64

	cmd := &cobra.Command{
		Use:   "setmembership",
		Short: "Prove a committed value lies in a public finite set",
		RunE: func(cmd *cobra.Command, args []string) error {
			cp, err := buildParams(1)
			if err != nil {
				return err
			}
			field := cp.Field()
			x := field.FromDigest(big.NewInt(value).Bytes())

			scalarSet := make([]algebra.Scalar, len(set))
			for i, v := range set {
				scalarSet[i] = field.FromDigest(big.NewInt(v).Bytes())
			}

			commitment, err := dlrep.CommitValue(cp.Group, cp.G0(), cp.G1(), x, secureRand)
			if err != nil {
				return err
			}
			proof, err := setmembership.Prove(cp, scalarSet, commitment, secureRand)
			if err != nil {
				return err
			}
			stmt, err := commitment.ClosedStatement()
			if err != nil {
				return err
			}
			err = setmembership.Verify(cp, scalarSet, stmt.Value, proof)
			okOrFail(cmd, "set-membership proof", err)
			return nil
		},
	}
	cmd.Flags().Int64Var(&value, "value", 7, "committed attribute value")
	cmd.Flags().Int64SliceVar(&set, "set", []int64{1, 3, 7, 11}, "public set of allowed values")
	return cmd
}
