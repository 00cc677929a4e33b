package config

import (
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
)

// Dynamo is where timelines live when the server and worker share them
type Dynamo interface {
	AWSConfig() *aws.Config
}

var _ Dynamo = ProdDynamo{}

type ProdDynamo struct {
	AccessKeyID     string
	SecretAccessKey string
	Region          string
}

func (p ProdDynamo) AWSConfig() *aws.Config {
	return aws.NewConfig().
		WithCredentials(credentials.NewStaticCredentials(p.AccessKeyID, p.SecretAccessKey, "")).
		WithRegion(p.Region)
}

var _ Dynamo = LocalDynamo{}

// LocalDynamo targets dynamodb-local, the region doubles as a namespace for test suites
type LocalDynamo struct {
	ProdDynamo
	Host string
}

func (l LocalDynamo) AWSConfig() *aws.Config {
	return l.ProdDynamo.AWSConfig().WithEndpoint(l.Host)
}
