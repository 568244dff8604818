// Copyright 2016 Maarten Everts. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"math/big"

	"github.com/spf13/cobra"

	"github.com/privacybydesign/upzkp/dlrep"
	"github.com/privacybydesign/upzkp/ineqproof"
)

func newPedersenCmd() *cobra.Command {
	var value int64
	var constant int64

	cmd := &cobra.Command{
		Use:   "pedersen",
		Short: "Commit to a value and prove it equals (or differs from) a public constant",
		RunE: func(cmd *cobra.Command, args []string) error {
			cp, err := buildParams(1)
			if err != nil {
				return err
			}
			field := cp.Field()
			x := field.FromDigest(big.NewInt(value).Bytes())
			c := field.FromDigest(big.NewInt(constant).Bytes())

			commitment, err := dlrep.CommitValue(cp.Group, cp.G0(), cp.G1(), x, secureRand)
			if err != nil {
				return err
			}
			stmt, err := commitment.ClosedStatement()
			if err != nil {
				return err
			}

			if x.Equal(c) {
				proof, constValue, err := ineqproof.ProveEqualConstant(cp, commitment, c, secureRand)
				if err != nil {
					return err
				}
				err = ineqproof.VerifyEqualConstant(cp, stmt.Value, constValue, proof)
				okOrFail(cmd, "equality proof", err)
				return nil
			}

			proof, err := ineqproof.ProveNotEqualConstant(cp, commitment, c, secureRand)
			if err != nil {
				return err
			}
			err = ineqproof.VerifyNotEqualConstant(cp, stmt.Value, c, proof)
			okOrFail(cmd, "inequality proof", err)
			return nil
		},
	}
	cmd.Flags().Int64Var(&value, "value", 42, "committed attribute value")
	cmd.Flags().Int64Var(&constant, "constant", 42, "public constant to compare against")
	return cmd
}
