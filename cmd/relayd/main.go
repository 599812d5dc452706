package main

//go-build: CGO_ENABLED=0

import (
	"context"
	"flag"
	"log"

	"github.com/golang/glog"

	fx "github.com/robotalks/relay.go/pkg/framework"
	"github.com/robotalks/relay.go/pkg/relay"
)

func init() {
	relay.SetupFlags()
}

func main() {
	flag.Parse()

	env := relay.NewConfig().MustNewEnv(context.Background())
	glog.Infof("relay %s: %s", env.Relay.ID, env.Config.Source)
	err := fx.NewLoop().Add(env).RunWithSignals()
	if closeErr := env.Close(); closeErr != nil {
		glog.Warningf("close: %v", closeErr)
	}
	if err != nil {
		log.Fatalln(err)
	}
}
