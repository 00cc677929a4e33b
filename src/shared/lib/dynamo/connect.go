package dynamolib

import (
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/guregu/dynamo"
	"github.com/veedubyou/stem-separator/src/shared/config"
)

func Connect(dynamoConfig config.Dynamo) DynamoDBWrapper {
	dbSession := session.Must(session.NewSession())
	return NewDynamoDBWrapper(dynamo.New(dbSession, dynamoConfig.AWSConfig()))
}
