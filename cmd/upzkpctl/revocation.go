// Copyright 2016 Maarten Everts. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"math/big"

	"github.com/spf13/cobra"

	"github.com/privacybydesign/upzkp/algebra"
	"github.com/privacybydesign/upzkp/revocation"
)

func newRevocationCmd() *cobra.Command {
	var holder int64
	var revoked []int64

	cmd := &cobra.Command{
		Use:   "revoke",
		Short: "Build an accumulator, revoke a set of identifiers, and prove non-revocation for a holder",
		RunE: func(cmd *cobra.Command, args []string) error {
			cp, err := buildParams(1)
			if err != nil {
				return err
			}
			acc, err := revocation.NewRAParams(cp.Group, seed, hashID, secureRand)
			if err != nil {
				return err
			}

			field := cp.Field()
			xid := field.FromDigest(big.NewInt(holder).Bytes())

			revokedScalars := make([]algebra.Scalar, len(revoked))
			for i, v := range revoked {
				revokedScalars[i] = field.FromDigest(big.NewInt(v).Bytes())
			}
			if len(revokedScalars) > 0 {
				if err := acc.UpdateAccumulator(revokedScalars, nil); err != nil {
					return err
				}
			}

			witness, err := acc.ComputeRevocationWitness(xid)
			if err != nil {
				return err
			}

			oID, err := field.Random(secureRand)
			if err != nil {
				return err
			}
			credCommitment, err := cp.Group.MultiExp(
				[]algebra.Element{cp.G0(), cp.G1()},
				[]algebra.Scalar{xid, oID},
			)
			if err != nil {
				return err
			}

			proof, err := revocation.ProveNonRevocation(cp, acc.RA, acc.V, credCommitment, xid, oID, witness, secureRand)
			if err != nil {
				return err
			}

			if err := revocation.Verify(cp, acc.RA, acc.V, credCommitment, proof); err != nil {
				okOrFail(cmd, "non-revocation proof", err)
				return nil
			}
			err = revocation.VerifyDesignated(cp, acc, credCommitment, proof)
			okOrFail(cmd, "non-revocation proof (designated verifier)", err)
			return nil
		},
	}
	cmd.Flags().Int64Var(&holder, "holder", 99, "holder's revocation identifier")
	cmd.Flags().Int64SliceVar(&revoked, "revoked", []int64{1, 2, 3}, "identifiers to revoke before proving")
	return cmd
}
