// Command aegennode is the node binary's entrypoint, using cobra for its
// start/genesis/keygen subcommands in place of the teacher's ad hoc
// main.go/mainV1.go pair.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/aegenchain/aegen-core/config"
	"github.com/aegenchain/aegen-core/cryptoutil"
)

var log = logrus.WithField("component", "cmd")

func main() {
	root := &cobra.Command{
		Use:   "aegennode",
		Short: "aegen-core Layer-2 node",
	}

	loadConfig := config.BindFlags(root.PersistentFlags())

	root.AddCommand(startCmd(loadConfig))
	root.AddCommand(genesisCmd())
	root.AddCommand(keygenCmd())

	if err := root.Execute(); err != nil {
		log.WithError(err).Error("command failed")
		os.Exit(1)
	}
}

func startCmd(loadConfig func() (config.Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "start the node's proposer loop and gossip listener",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			log.WithFields(logrus.Fields{
				"node_id":     cfg.NodeID,
				"listen_addr": cfg.ListenAddr,
				"committee":   cfg.Committee,
			}).Info("starting node")
			return runNode(cfg)
		},
	}
}

func genesisCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "genesis",
		Short: "print a genesis block template",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("genesis: height=0 stateRoot=0x0 txRoot=0x0")
			return nil
		},
	}
}

func keygenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keygen",
		Short: "generate an Ed25519 keypair and print its k: address",
		RunE: func(cmd *cobra.Command, args []string) error {
			priv, pub, err := cryptoutil.GenerateKeypair()
			if err != nil {
				return err
			}
			addr := cryptoutil.DeriveAddress(pub)
			fmt.Printf("address: %s\n", addr)
			fmt.Printf("private: %x\n", priv)
			return nil
		},
	}
}
