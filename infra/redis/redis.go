package redis

import (
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp/projects"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp/redis"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp/vpcaccess"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi/config"
)

// Cache is the Memorystore instance backing the widget data cache and the
// connector Cloud Run uses to reach it.
type Cache struct {
	Instance  *redis.Instance
	Connector *vpcaccess.Connector
}

func SetupRedis(ctx *pulumi.Context, prov *gcp.Provider) (*Cache, error) {
	gcpCfg := config.New(ctx, "gcp")
	redisCfg := config.New(ctx, "redis")
	region := gcpCfg.Require("region")
	memoryGb := redisCfg.GetInt("memorySizeGb")
	if memoryGb == 0 {
		memoryGb = 1
	}
	cidr := redisCfg.Get("connectorCidr")
	if cidr == "" {
		cidr = "10.8.0.0/28"
	}

	redisSvc, err := enableService(ctx, prov, "redisService", "redis.googleapis.com")
	if err != nil {
		return nil, err
	}
	vpcSvc, err := enableService(ctx, prov, "vpcAccessService", "vpcaccess.googleapis.com")
	if err != nil {
		return nil, err
	}

	inst, err := redis.NewInstance(ctx, "widgetCache", &redis.InstanceArgs{
		Name:         pulumi.String("owms-widget-cache"),
		Tier:         pulumi.String("BASIC"),
		MemorySizeGb: pulumi.Int(memoryGb),
		Region:       pulumi.String(region),
		RedisVersion: pulumi.String("REDIS_7_2"),
		AuthEnabled:  pulumi.Bool(true),
	},
		pulumi.Provider(prov),
		pulumi.DependsOn([]pulumi.Resource{redisSvc}),
	)
	if err != nil {
		return nil, err
	}

	conn, err := vpcaccess.NewConnector(ctx, "dashboardConnector", &vpcaccess.ConnectorArgs{
		Name:         pulumi.String("owms-dashboard"),
		Region:       pulumi.String(region),
		Network:      pulumi.String("default"),
		IpCidrRange:  pulumi.String(cidr),
		MinInstances: pulumi.Int(2),
		MaxInstances: pulumi.Int(3),
	},
		pulumi.Provider(prov),
		pulumi.DependsOn([]pulumi.Resource{vpcSvc}),
	)
	if err != nil {
		return nil, err
	}

	return &Cache{Instance: inst, Connector: conn}, nil
}

// Addr is host:port for REDISADDR.
func (c *Cache) Addr() pulumi.StringOutput {
	return pulumi.Sprintf("%s:%d", c.Instance.Host, c.Instance.Port)
}

func enableService(ctx *pulumi.Context, prov *gcp.Provider, name, api string) (*projects.Service, error) {
	return projects.NewService(ctx, name, &projects.ServiceArgs{
		Service: pulumi.String(api),
	},
		pulumi.Provider(prov),
	)
}
