package main

import (
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"

	"github.com/GregMSThompson/owms-dashboard/infra/cloudrun"
	"github.com/GregMSThompson/owms-dashboard/infra/docker"
	"github.com/GregMSThompson/owms-dashboard/infra/firestore"
	"github.com/GregMSThompson/owms-dashboard/infra/identity"
	"github.com/GregMSThompson/owms-dashboard/infra/provider"
	"github.com/GregMSThompson/owms-dashboard/infra/redis"
)

func main() {
	pulumi.Run(func(ctx *pulumi.Context) error {
		prov, err := provider.SetupDefaultProvider(ctx)
		if err != nil {
			return err
		}

		// firebase auth for the dashboard users
		ident, err := identity.SetupIdentity(ctx, prov)
		if err != nil {
			return err
		}

		// dashboard preferences live in firestore
		err = firestore.SetupFirestore(ctx, prov)
		if err != nil {
			return err
		}

		// widget data cache
		cache, err := redis.SetupRedis(ctx, prov)
		if err != nil {
			return err
		}

		repo, err := docker.CreateCloudrunRepo(ctx, prov)
		if err != nil {
			return err
		}

		svc, err := cloudrun.SetupCloudRun(ctx, prov, cache, ident, repo)
		if err != nil {
			return err
		}

		ctx.Export("service", svc.Name)
		return nil
	})
}
